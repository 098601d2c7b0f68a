package repository

import (
	"context"
	"net/http"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/transport"
)

type DeliveryRepository interface {
	List(ctx context.Context) ([]model.Delivery, error)
	SetStatus(ctx context.Context, deliveryID string, status model.DeliveryStatus, comment string) error
}

type deliveryRepository struct {
	t transport.Adapter
}

func NewDeliveryRepository(t transport.Adapter) DeliveryRepository {
	return &deliveryRepository{t: t}
}

func (r *deliveryRepository) List(ctx context.Context) ([]model.Delivery, error) {
	var items []model.Delivery
	if err := call(ctx, r.t, http.MethodGet, "/deliveries", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *deliveryRepository) SetStatus(ctx context.Context, deliveryID string, status model.DeliveryStatus, comment string) error {
	body := model.DeliveryStatusRequest{Status: status, Comment: comment}
	return call(ctx, r.t, http.MethodPost, resourcePath("/deliveries", deliveryID, "status"), body, nil)
}
