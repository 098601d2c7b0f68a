package model

// Category keys accepted by the gateway.
type Category string

const (
	CategoryClothing  Category = "clothing"
	CategoryFurniture Category = "furniture"
	CategoryHygiene   Category = "hygiene"
	CategoryFeeding   Category = "feeding"
	CategoryMobility  Category = "mobility"
	CategorySafety    Category = "safety"
	CategoryToys      Category = "toys"
	CategoryHealth    Category = "health"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryClothing, CategoryFurniture, CategoryHygiene, CategoryFeeding,
	CategoryMobility, CategorySafety, CategoryToys, CategoryHealth,
}

var categoryLabels = map[Category]string{
	CategoryClothing:  "Vetements",
	CategoryFurniture: "Mobilier",
	CategoryHygiene:   "Hygiene",
	CategoryFeeding:   "Alimentation",
	CategoryMobility:  "Mobilite",
	CategorySafety:    "Securite",
	CategoryToys:      "Jouets",
	CategoryHealth:    "Sante",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Condition string

const (
	ConditionNewWithTag Condition = "New with tag"
	ConditionLikeNew    Condition = "Like new"
	ConditionGood       Condition = "Good"
	ConditionLoved      Condition = "Loved"
)

var Conditions = []Condition{ConditionNewWithTag, ConditionLikeNew, ConditionGood, ConditionLoved}

func (c Condition) Valid() bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

// ListingPayload is the body of POST /listings. PriceCents nil means free or
// "ask".
type ListingPayload struct {
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	PriceCents  *int64    `json:"price_cents"`
	Condition   Condition `json:"condition"`
}

type CreatedListing struct {
	ListingID string `json:"listing_id"`
}

// ListingSummary is one entry of GET /listings.
type ListingSummary struct {
	ListingID  string  `json:"listing_id"`
	Title      string  `json:"title"`
	PriceCents *int64  `json:"price_cents"`
	City       *string `json:"city,omitempty"`
	IsFree     int     `json:"is_free,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
}

func (l ListingSummary) Free() bool {
	return l.IsFree != 0
}
