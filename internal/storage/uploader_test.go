package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/model"
)

func TestPutAzureHeaders(t *testing.T) {
	var got *http.Request
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	u, err := NewUploader("azure", 5*time.Second, nil)
	require.NoError(t, err)

	target := model.UploadTarget{BlobName: "b1", UploadURL: srv.URL + "/c/b1?sig=x"}
	require.NoError(t, u.Put(context.Background(), target, fileset.FromBytes("a.png", "image/png", []byte("png"))))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "sig=x", got.URL.RawQuery)
	assert.Equal(t, "BlockBlob", got.Header.Get("x-ms-blob-type"))
	assert.Equal(t, "image/png", got.Header.Get("x-ms-blob-content-type"))
	assert.Equal(t, "image/png", got.Header.Get("Content-Type"))
	assert.Equal(t, "png", body)
}

func TestPutDefaultsContentType(t *testing.T) {
	var blobType, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		blobType = r.Header.Get("x-ms-blob-type")
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := NewUploader("gcs", 5*time.Second, nil)
	require.NoError(t, err)
	require.NoError(t, u.Put(context.Background(), model.UploadTarget{UploadURL: srv.URL}, fileset.FromBytes("raw", "", []byte("x"))))
	assert.Empty(t, blobType)
	assert.Equal(t, DefaultContentType, contentType)
}

func TestPutRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	u, err := NewUploader("", 5*time.Second, nil)
	require.NoError(t, err)
	err = u.Put(context.Background(), model.UploadTarget{BlobName: "b2", UploadURL: srv.URL}, fileset.FromBytes("b.jpg", "image/jpeg", []byte("x")))
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusForbidden, ue.StatusCode)
	assert.Equal(t, "b.jpg", ue.File)
}

func TestNewUploaderUnknownProvider(t *testing.T) {
	_, err := NewUploader("ftp", time.Second, nil)
	require.Error(t, err)
}
