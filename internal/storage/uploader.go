// Package storage uploads listing images straight to object storage using
// the signed URLs issued by the gateway.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/model"
)

const DefaultContentType = "application/octet-stream"

type Provider string

const (
	ProviderAzure Provider = "azure"
	ProviderGCS   Provider = "gcs"
	ProviderS3    Provider = "s3"
)

// Uploader transfers one file to one upload target.
type Uploader interface {
	Put(ctx context.Context, target model.UploadTarget, file fileset.File) error
}

// UploadError reports a rejected transfer.
type UploadError struct {
	File       string
	BlobName   string
	StatusCode int
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s (%s) failed: status %d", e.File, e.BlobName, e.StatusCode)
}

type signedURLUploader struct {
	client   *resty.Client
	provider Provider
	logger   *slog.Logger
}

// NewUploader returns an Uploader for the given provider. Unknown providers
// are rejected.
func NewUploader(provider string, timeout time.Duration, logger *slog.Logger) (Uploader, error) {
	return NewUploaderWithClient(resty.New().SetTimeout(timeout).SetRetryCount(0), provider, logger)
}

func NewUploaderWithClient(client *resty.Client, provider string, logger *slog.Logger) (Uploader, error) {
	p := Provider(provider)
	switch p {
	case "":
		p = ProviderAzure
	case ProviderAzure, ProviderGCS, ProviderS3:
	default:
		return nil, fmt.Errorf("unsupported blob provider: %s", provider)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &signedURLUploader{client: client, provider: p, logger: logger}, nil
}

func (u *signedURLUploader) Put(ctx context.Context, target model.UploadTarget, file fileset.File) error {
	data, err := fileset.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file.Name(), err)
	}
	contentType := file.ContentType()
	if contentType == "" {
		contentType = DefaultContentType
	}

	req := u.client.R().
		SetContext(ctx).
		SetHeaders(BlobHeaders(u.provider, contentType)).
		SetBody(data)

	start := time.Now()
	resp, err := req.Put(target.UploadURL)
	log := logging.FromContext(ctx, u.logger).With("stage", "upload", "blob", target.BlobName)
	if err != nil {
		log.Warn("upload failed", "file", file.Name(), "err", err)
		return fmt.Errorf("upload %s: %w", file.Name(), err)
	}
	if !resp.IsSuccess() {
		log.Warn("upload rejected", "file", file.Name(), "status", resp.StatusCode())
		return &UploadError{File: file.Name(), BlobName: target.BlobName, StatusCode: resp.StatusCode()}
	}
	log.Debug("upload done", "file", file.Name(), "bytes", len(data), "ms", time.Since(start).Milliseconds())
	return nil
}

// BlobHeaders returns the headers a direct PUT needs for provider.
func BlobHeaders(provider Provider, contentType string) map[string]string {
	h := map[string]string{"Content-Type": contentType}
	if provider == ProviderAzure || provider == "" {
		h["x-ms-blob-type"] = "BlockBlob"
		h["x-ms-blob-content-type"] = contentType
	}
	return h
}
