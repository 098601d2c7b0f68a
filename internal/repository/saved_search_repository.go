package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/transport"
)

type SavedSearchRepository interface {
	Create(ctx context.Context, s model.SavedSearch) (string, error)
	Run(ctx context.Context, id string) ([]model.ListingSummary, error)
	Toggle(ctx context.Context, id string, active bool) error
}

type savedSearchRepository struct {
	t transport.Adapter
}

func NewSavedSearchRepository(t transport.Adapter) SavedSearchRepository {
	return &savedSearchRepository{t: t}
}

func (r *savedSearchRepository) Create(ctx context.Context, s model.SavedSearch) (string, error) {
	var created model.CreatedSavedSearch
	if err := call(ctx, r.t, http.MethodPost, "/saved-searches", s, &created); err != nil {
		return "", err
	}
	if created.SavedSearchID == "" {
		return "", errors.New("create saved search: gateway returned no saved_search_id")
	}
	return created.SavedSearchID, nil
}

func (r *savedSearchRepository) Run(ctx context.Context, id string) ([]model.ListingSummary, error) {
	var items []model.ListingSummary
	if err := call(ctx, r.t, http.MethodPost, resourcePath("/saved-searches", id, "run"), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *savedSearchRepository) Toggle(ctx context.Context, id string, active bool) error {
	return call(ctx, r.t, http.MethodPost, resourcePath("/saved-searches", id, "toggle"), model.SavedSearchToggle{Active: active}, nil)
}
