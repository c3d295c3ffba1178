package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wish is a single wishlist entry. Prices are exact decimals (stored as
// integer cents), never binary floats.
type Wish struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Link          *string         `json:"link"`
	PriceEstimate decimal.Decimal `json:"price_estimate"`
	Notes         *string         `json:"notes"`
	OwnerID       int64           `json:"owner_id"`
	IsFavorite    bool            `json:"is_favorite"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WishCreate is the creation payload. PriceEstimate is a pointer so a
// missing price is distinguishable from zero.
type WishCreate struct {
	Title         string           `json:"title"`
	Link          *string          `json:"link"`
	PriceEstimate *decimal.Decimal `json:"price_estimate"`
	Notes         *string          `json:"notes"`
}

// WishPatch is a sparse update: only fields present in the request change.
// Nullable fields (link, notes) may be cleared with an explicit null.
type WishPatch struct {
	Title         Field[string]          `json:"title"`
	Link          Field[string]          `json:"link"`
	PriceEstimate Field[decimal.Decimal] `json:"price_estimate"`
	Notes         Field[string]          `json:"notes"`
	IsFavorite    Field[bool]            `json:"is_favorite"`
}

// WishList is the paginated listing envelope.
type WishList struct {
	Items  []Wish `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
