package types

import "github.com/shopspring/decimal"

// Product mirrors the catalog document returned by the backend.
type Product struct {
	ID           string          `json:"_id,omitempty"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	Description  string          `json:"description"`
	Rating       float64         `json:"rating"`
	NumReviews   int             `json:"numReviews"`
}
