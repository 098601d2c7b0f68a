package model

type SavedSearch struct {
	Query         string   `json:"query"`
	Category      Category `json:"category,omitempty"`
	MaxPriceCents *int64   `json:"max_price_cents,omitempty"`
}

type CreatedSavedSearch struct {
	SavedSearchID string `json:"saved_search_id"`
}

type SavedSearchToggle struct {
	Active bool `json:"active"`
}
