package repository

import (
	"context"
	"net/http"

	"github.com/shinyyama/kidtokid/internal/transport"
)

type FavoriteRepository interface {
	Add(ctx context.Context, listingID string) error
	Remove(ctx context.Context, listingID string) error
}

type favoriteRepository struct {
	t transport.Adapter
}

func NewFavoriteRepository(t transport.Adapter) FavoriteRepository {
	return &favoriteRepository{t: t}
}

func (r *favoriteRepository) Add(ctx context.Context, listingID string) error {
	return call(ctx, r.t, http.MethodPost, resourcePath("/favorites", listingID), nil, nil)
}

func (r *favoriteRepository) Remove(ctx context.Context, listingID string) error {
	return call(ctx, r.t, http.MethodDelete, resourcePath("/favorites", listingID), nil, nil)
}
