package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
)

const defaultListingLimit = 12

type ListingService interface {
	List(ctx context.Context, limit int, category string) ([]model.ListingSummary, error)
}

type listingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

func (s *listingService) List(ctx context.Context, limit int, category string) ([]model.ListingSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListingLimit
	}
	cat := model.Category(strings.TrimSpace(category))
	if cat != "" && !cat.Valid() {
		return nil, invalid("category", fmt.Sprintf("unknown category %q", cat))
	}
	items, err := s.repo.List(ctx, limit, cat)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ListingSummary{}
	}
	return items, nil
}
