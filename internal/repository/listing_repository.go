package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/transport"
)

type ListingRepository interface {
	List(ctx context.Context, limit int, category model.Category) ([]model.ListingSummary, error)
	Create(ctx context.Context, payload model.ListingPayload) (string, error)
	RequestUploadTargets(ctx context.Context, listingID string, exts []string) ([]model.UploadTarget, error)
	CommitImages(ctx context.Context, listingID string, images []model.ImageCommit) error
}

type listingRepository struct {
	t transport.Adapter
}

func NewListingRepository(t transport.Adapter) ListingRepository {
	return &listingRepository{t: t}
}

func (r *listingRepository) List(ctx context.Context, limit int, category model.Category) ([]model.ListingSummary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if category != "" {
		q.Set("category", string(category))
	}
	path := "/listings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var items []model.ListingSummary
	if err := call(ctx, r.t, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *listingRepository) Create(ctx context.Context, payload model.ListingPayload) (string, error) {
	var created model.CreatedListing
	if err := call(ctx, r.t, http.MethodPost, "/listings", payload, &created); err != nil {
		return "", err
	}
	if created.ListingID == "" {
		return "", errors.New("create listing: gateway returned no listing_id")
	}
	return created.ListingID, nil
}

func (r *listingRepository) RequestUploadTargets(ctx context.Context, listingID string, exts []string) ([]model.UploadTarget, error) {
	req := model.UploadTargetsRequest{Files: make([]model.UploadFileMeta, 0, len(exts))}
	for _, ext := range exts {
		req.Files = append(req.Files, model.UploadFileMeta{Ext: ext})
	}
	var targets []model.UploadTarget
	if err := call(ctx, r.t, http.MethodPost, resourcePath("/listings", listingID, "upload-urls"), req, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *listingRepository) CommitImages(ctx context.Context, listingID string, images []model.ImageCommit) error {
	return call(ctx, r.t, http.MethodPost, resourcePath("/listings", listingID, "images"), model.CommitImagesRequest{Images: images}, nil)
}
