package service

import (
	"context"
	"strings"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
)

// BasketView is the basket as last fetched from the gateway.
type BasketView struct {
	Lines      []model.BasketLine
	TotalCents int64
}

type OrderResult struct {
	Order  *model.OrderConfirmation
	Basket *BasketView
}

// BasketService never patches the basket locally: every mutation is followed
// by a fresh List.
type BasketService interface {
	List(ctx context.Context) (*BasketView, error)
	Add(ctx context.Context, listingID string) (*BasketView, error)
	Remove(ctx context.Context, listingID string) (*BasketView, error)
	Confirm(ctx context.Context) (*OrderResult, error)
}

type basketService struct {
	repo repository.BasketRepository
}

func NewBasketService(repo repository.BasketRepository) BasketService {
	return &basketService{repo: repo}
}

func (s *basketService) List(ctx context.Context) (*BasketView, error) {
	lines, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	view := &BasketView{Lines: lines}
	if view.Lines == nil {
		view.Lines = []model.BasketLine{}
	}
	for _, l := range lines {
		if l.PriceCents != nil {
			view.TotalCents += *l.PriceCents
		}
	}
	return view, nil
}

func (s *basketService) Add(ctx context.Context, listingID string) (*BasketView, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, invalid("listing_id", "is required")
	}
	if err := s.repo.Add(ctx, listingID); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *basketService) Remove(ctx context.Context, listingID string) (*BasketView, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, invalid("listing_id", "is required")
	}
	if err := s.repo.Remove(ctx, listingID); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *basketService) Confirm(ctx context.Context) (*OrderResult, error) {
	oc, err := s.repo.Confirm(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.List(ctx)
	if err != nil {
		return &OrderResult{Order: oc}, err
	}
	return &OrderResult{Order: oc, Basket: view}, nil
}
