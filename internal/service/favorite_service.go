package service

import (
	"context"
	"strings"

	"github.com/shinyyama/kidtokid/internal/repository"
)

type FavoriteService interface {
	Add(ctx context.Context, listingID string) error
	Remove(ctx context.Context, listingID string) error
}

type favoriteService struct {
	repo repository.FavoriteRepository
}

func NewFavoriteService(repo repository.FavoriteRepository) FavoriteService {
	return &favoriteService{repo: repo}
}

func (s *favoriteService) Add(ctx context.Context, listingID string) error {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return invalid("listing_id", "is required")
	}
	return s.repo.Add(ctx, listingID)
}

func (s *favoriteService) Remove(ctx context.Context, listingID string) error {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return invalid("listing_id", "is required")
	}
	return s.repo.Remove(ctx, listingID)
}
