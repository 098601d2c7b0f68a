package model

// BasketLine is a listing in the buyer's basket with a title/price snapshot.
type BasketLine struct {
	ListingID  string  `json:"listing_id"`
	Title      string  `json:"title"`
	PriceCents *int64  `json:"price_cents"`
	City       *string `json:"city,omitempty"`
}

type OrderConfirmation struct {
	OrderID    string `json:"order_id"`
	TotalCents int64  `json:"total_cents"`
}
