package reqctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	keyRID       ctxKey = "rid"
	keyListingID ctxKey = "listing_id"
)

// WithRID stores the correlation id sent to the gateway and used in logs.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns correlation id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// EnsureRID returns ctx carrying a correlation id, generating one when absent.
func EnsureRID(ctx context.Context) (context.Context, string) {
	if rid := RID(ctx); rid != "" {
		return ctx, rid
	}
	rid := uuid.NewString()
	return WithRID(ctx, rid), rid
}

// WithListingID stores the listing being published.
func WithListingID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyListingID, id)
}

// ListingID returns listing id if present.
func ListingID(ctx context.Context) string {
	v, _ := ctx.Value(keyListingID).(string)
	return v
}
