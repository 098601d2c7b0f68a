package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/storage"
	"github.com/shinyyama/kidtokid/internal/transport"
)

// fakeGateway is an in-process marketplace gateway plus a blob store that
// accepts signed PUTs.
type fakeGateway struct {
	mu      sync.Mutex
	created model.ListingPayload
	exts    []string
	blobs   map[string]string
	blobHdr map[string]http.Header
	commit  model.CommitImagesRequest
	commits int
}

func startFakeGateway(t *testing.T) (*fakeGateway, *httptest.Server) {
	t.Helper()
	g := &fakeGateway{blobs: map[string]string{}, blobHdr: map[string]http.Header{}}

	blobSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.blobs[r.URL.Path] = string(b)
		g.blobHdr[r.URL.Path] = r.Header.Clone()
		g.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(blobSrv.Close)

	e := echo.New()
	api := e.Group("/api")
	api.POST("/listings", func(c echo.Context) error {
		var p model.ListingPayload
		if err := c.Bind(&p); err != nil {
			return err
		}
		g.mu.Lock()
		g.created = p
		g.mu.Unlock()
		return c.JSON(http.StatusCreated, model.CreatedListing{ListingID: "L42"})
	})
	api.POST("/listings/:id/upload-urls", func(c echo.Context) error {
		var req model.UploadTargetsRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		out := make([]model.UploadTarget, len(req.Files))
		g.mu.Lock()
		for i, f := range req.Files {
			g.exts = append(g.exts, f.Ext)
			name := c.Param("id") + "/" + string(rune('0'+i)) + "." + f.Ext
			out[i] = model.UploadTarget{
				BlobName:  name,
				UploadURL: blobSrv.URL + "/media/" + name + "?sv=1&sig=abc",
				PublicURL: "https://cdn.example/" + name,
			}
		}
		g.mu.Unlock()
		return c.JSON(http.StatusOK, out)
	})
	api.POST("/listings/:id/images", func(c echo.Context) error {
		var req model.CommitImagesRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		g.mu.Lock()
		g.commit = req
		g.commits++
		g.mu.Unlock()
		return c.NoContent(http.StatusNoContent)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return g, srv
}

func TestPublishEndToEnd(t *testing.T) {
	g, srv := startFakeGateway(t)

	adapter := transport.New(srv.URL+"/api", 5*time.Second, nil)
	up, err := storage.NewUploader(string(storage.ProviderAzure), 5*time.Second, nil)
	require.NoError(t, err)
	svc := NewPublicationService(repository.NewListingRepository(adapter), up, nil, 2, nil)

	files := []fileset.File{
		fileset.FromBytes("cube-front.png", "image/png", []byte("front")),
		fileset.FromBytes("cube-side.jpg", "image/jpeg", []byte("side")),
	}
	res, err := svc.Publish(context.Background(), ListingForm{
		Title:    "Wooden cube",
		Category: "toys",
		Price:    "12.50",
		City:     "Lyon",
	}, files)
	require.NoError(t, err)
	assert.Equal(t, "L42", res.ListingID)

	g.mu.Lock()
	defer g.mu.Unlock()

	require.NotNil(t, g.created.PriceCents)
	assert.Equal(t, int64(1250), *g.created.PriceCents)
	assert.Equal(t, model.CategoryToys, g.created.Category)
	assert.Equal(t, []string{"png", "jpg"}, g.exts)

	require.Len(t, g.blobs, 2)
	assert.Equal(t, "front", g.blobs["/media/L42/0.png"])
	assert.Equal(t, "side", g.blobs["/media/L42/1.jpg"])
	assert.Equal(t, "BlockBlob", g.blobHdr["/media/L42/0.png"].Get("x-ms-blob-type"))
	assert.Equal(t, "image/jpeg", g.blobHdr["/media/L42/1.jpg"].Get("x-ms-blob-content-type"))

	assert.Equal(t, 1, g.commits)
	require.Len(t, g.commit.Images, 2)
	assert.Equal(t, 0, g.commit.Images[0].SortOrder)
	assert.Equal(t, "L42/0.png", g.commit.Images[0].BlobName)
	assert.Equal(t, 1, g.commit.Images[1].SortOrder)
	assert.Equal(t, "https://cdn.example/L42/1.jpg", g.commit.Images[1].PublicURL)
}
