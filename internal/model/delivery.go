package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusInProgress DeliveryStatus = "in_progress"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
	DeliveryStatusFailed     DeliveryStatus = "failed"
	DeliveryStatusCanceled   DeliveryStatus = "canceled"
)

var DeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending, DeliveryStatusInProgress, DeliveryStatusDelivered,
	DeliveryStatusFailed, DeliveryStatusCanceled,
}

func (s DeliveryStatus) Valid() bool {
	for _, v := range DeliveryStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Delivery struct {
	DeliveryID      string         `json:"delivery_id"`
	OrderID         string         `json:"order_id"`
	Status          DeliveryStatus `json:"status"`
	RequiredComment *string        `json:"required_comment,omitempty"`
	TotalCents      int64          `json:"total_cents"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type DeliveryStatusRequest struct {
	Status  DeliveryStatus `json:"status"`
	Comment string         `json:"comment"`
}
