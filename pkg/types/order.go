package types

import (
	"time"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is the checkout document the backend owns. The line items, address and
// price fields are snapshots frozen at submission time; the client never
// recomputes them from the live cart.
type Order struct {
	ID              string              `json:"_id,omitempty"`
	OrderItems      []CartItem          `json:"orderItems"`
	ShippingAddress ShippingAddress     `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal     `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal     `json:"shippingPrice"`
	TaxPrice        decimal.Decimal     `json:"taxPrice"`
	TotalPrice      decimal.Decimal     `json:"totalPrice"`
	IsPaid          bool                `json:"isPaid"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
	IsDelivered     bool                `json:"isDelivered"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt       *time.Time          `json:"createdAt,omitempty"`
}
