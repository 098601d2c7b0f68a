package repository

import (
	"context"
	"net/http"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/transport"
)

type BasketRepository interface {
	List(ctx context.Context) ([]model.BasketLine, error)
	Add(ctx context.Context, listingID string) error
	Remove(ctx context.Context, listingID string) error
	Confirm(ctx context.Context) (*model.OrderConfirmation, error)
}

type basketRepository struct {
	t transport.Adapter
}

func NewBasketRepository(t transport.Adapter) BasketRepository {
	return &basketRepository{t: t}
}

func (r *basketRepository) List(ctx context.Context) ([]model.BasketLine, error) {
	var lines []model.BasketLine
	if err := call(ctx, r.t, http.MethodGet, "/basket", nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *basketRepository) Add(ctx context.Context, listingID string) error {
	return call(ctx, r.t, http.MethodPost, resourcePath("/basket", listingID), nil, nil)
}

func (r *basketRepository) Remove(ctx context.Context, listingID string) error {
	return call(ctx, r.t, http.MethodDelete, resourcePath("/basket", listingID), nil, nil)
}

func (r *basketRepository) Confirm(ctx context.Context) (*model.OrderConfirmation, error) {
	var oc model.OrderConfirmation
	if err := call(ctx, r.t, http.MethodPost, "/orders/confirm", nil, &oc); err != nil {
		return nil, err
	}
	return &oc, nil
}
