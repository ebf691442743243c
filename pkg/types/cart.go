package types

import "github.com/shopspring/decimal"

// CartItem is a single product entry in the cart with its own quantity.
type CartItem struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	CountInStock int             `json:"countInStock"`
}

// CartItemFromProduct converts a catalog product into a cart line item with
// quantity one.
func CartItemFromProduct(p Product) CartItem {
	return CartItem{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Image:        p.Image,
		Price:        p.Price,
		Quantity:     1,
		CountInStock: p.CountInStock,
	}
}

// ShippingAddress holds the plain-text destination captured at checkout.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// IsZero reports whether no address has been captured yet.
func (s ShippingAddress) IsZero() bool {
	return s == ShippingAddress{}
}
