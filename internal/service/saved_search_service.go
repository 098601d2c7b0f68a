package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
)

type SavedSearchInput struct {
	Query    string
	Category string
	MaxPrice string
}

type SavedSearchService interface {
	Create(ctx context.Context, in SavedSearchInput) (string, error)
	Run(ctx context.Context, id string) ([]model.ListingSummary, error)
	Toggle(ctx context.Context, id string, active bool) error
}

type savedSearchService struct {
	repo repository.SavedSearchRepository
}

func NewSavedSearchService(repo repository.SavedSearchRepository) SavedSearchService {
	return &savedSearchService{repo: repo}
}

func (s *savedSearchService) Create(ctx context.Context, in SavedSearchInput) (string, error) {
	query := strings.TrimSpace(in.Query)
	cat := model.Category(strings.TrimSpace(in.Category))
	if query == "" && cat == "" {
		return "", invalid("query", "query or category is required")
	}
	if cat != "" && !cat.Valid() {
		return "", invalid("category", fmt.Sprintf("unknown category %q", cat))
	}
	return s.repo.Create(ctx, model.SavedSearch{
		Query:         query,
		Category:      cat,
		MaxPriceCents: ParsePriceCents(in.MaxPrice),
	})
}

func (s *savedSearchService) Run(ctx context.Context, id string) ([]model.ListingSummary, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("saved_search_id", "is required")
	}
	items, err := s.repo.Run(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ListingSummary{}
	}
	return items, nil
}

func (s *savedSearchService) Toggle(ctx context.Context, id string, active bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("saved_search_id", "is required")
	}
	return s.repo.Toggle(ctx, id, active)
}
