package cart

import (
	"context"
	"sync"

	"github.com/rmontanez/shopfront/internal/storage"
	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/logger"
	"github.com/rmontanez/shopfront/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var (
	freeShippingAbove = decimal.NewFromInt(100)
	flatShippingPrice = decimal.NewFromInt(10)
	taxRate           = decimal.NewFromFloat(0.15)
)

// Machine owns the shopping cart: line items, the captured shipping address,
// the selected payment method and the four derived price fields. Every
// mutation mirrors the post-mutation items to the persisted store
// synchronously; persistence failures are logged and never surfaced.
type Machine struct {
	mu    sync.Mutex
	store storage.Store
	logg  *logger.Logger

	items           []types.CartItem
	shippingAddress types.ShippingAddress
	paymentMethod   enums.PaymentMethod

	itemsPrice    decimal.Decimal
	shippingPrice decimal.Decimal
	taxPrice      decimal.Decimal
	totalPrice    decimal.Decimal
}

// Snapshot is a read-only copy of the cart state, composed for cross-machine
// reads at the call site. It is never written back.
type Snapshot struct {
	Items           []types.CartItem
	ShippingAddress types.ShippingAddress
	PaymentMethod   enums.PaymentMethod
	ItemsPrice      decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
	TotalPrice      decimal.Decimal
}

// NewMachine rehydrates the cart from the persisted store. Corrupt or absent
// blobs degrade to an empty cart with the default payment method.
func NewMachine(ctx context.Context, store storage.Store, logg *logger.Logger) *Machine {
	m := &Machine{
		store:         store,
		logg:          logg,
		items:         []types.CartItem{},
		paymentMethod: enums.PaymentMethodPayPal,
	}

	var items []types.CartItem
	if found, err := store.Read(ctx, storage.KeyCartItems, &items); err == nil && found {
		m.items = items
	}
	var address types.ShippingAddress
	if found, err := store.Read(ctx, storage.KeyShippingAddress, &address); err == nil && found {
		m.shippingAddress = address
	}
	var method enums.PaymentMethod
	if found, err := store.Read(ctx, storage.KeyPaymentMethod, &method); err == nil && found && method.IsValid() {
		m.paymentMethod = method
	}

	return m
}

// AddItem merges the incoming line item into the cart. An item already present
// has its quantity incremented by the incoming quantity; a brand-new item is
// appended with quantity forced to one regardless of the incoming field. The
// asymmetry reproduces the behavior downstream consumers already rely on.
func (m *Machine) AddItem(ctx context.Context, item types.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged := false
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = 1
		m.items = append(m.items, item)
	}

	m.persistItems(ctx)
}

// RemoveItem drops the line item with the given id; absent ids are a no-op.
func (m *Machine) RemoveItem(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.items[:0]
	for _, item := range m.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	m.items = filtered

	m.persistItems(ctx)
}

// SetQuantity updates the quantity of the matching line item, clamping any
// non-positive value up to one. Absent ids are a no-op.
func (m *Machine) SetQuantity(ctx context.Context, id string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Quantity = quantity
			break
		}
	}

	m.persistItems(ctx)
}

// RecalculatePrices re-derives the four price fields from the current line
// items. It runs on demand, not on every mutation: callers invoke it after
// item changes that should affect totals.
func (m *Machine) RecalculatePrices() {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := decimal.Zero
	for _, item := range m.items {
		items = items.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := flatShippingPrice
	if items.GreaterThan(freeShippingAbove) {
		shipping = decimal.Zero
	}

	m.itemsPrice = items
	m.shippingPrice = shipping
	m.taxPrice = taxRate.Mul(items)
	m.totalPrice = items.Add(shipping).Add(m.taxPrice)
}

// SetShippingAddress replaces the captured address and mirrors it to the store.
func (m *Machine) SetShippingAddress(ctx context.Context, address types.ShippingAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shippingAddress = address
	m.persist(ctx, storage.KeyShippingAddress, address)
}

// SetPaymentMethod replaces the selected method and mirrors it to the store.
func (m *Machine) SetPaymentMethod(ctx context.Context, method enums.PaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paymentMethod = method
	m.persist(ctx, storage.KeyPaymentMethod, method)
}

// Reset empties the cart, zeroes the derived fields and clears the three
// persisted keys. Calling it twice yields the same empty state as once.
func (m *Machine) Reset(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = []types.CartItem{}
	m.shippingAddress = types.ShippingAddress{}
	m.paymentMethod = enums.PaymentMethodPayPal
	m.itemsPrice = decimal.Zero
	m.shippingPrice = decimal.Zero
	m.taxPrice = decimal.Zero
	m.totalPrice = decimal.Zero

	err := multierr.Combine(
		m.store.Clear(ctx, storage.KeyCartItems),
		m.store.Clear(ctx, storage.KeyShippingAddress),
		m.store.Clear(ctx, storage.KeyPaymentMethod),
	)
	if err != nil && m.logg != nil {
		m.logg.Warn(ctx, "clearing persisted cart state: "+err.Error())
	}
}

// Snapshot returns a read-only copy of the current cart state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]types.CartItem, len(m.items))
	copy(items, m.items)

	return Snapshot{
		Items:           items,
		ShippingAddress: m.shippingAddress,
		PaymentMethod:   m.paymentMethod,
		ItemsPrice:      m.itemsPrice,
		ShippingPrice:   m.shippingPrice,
		TaxPrice:        m.taxPrice,
		TotalPrice:      m.totalPrice,
	}
}

// persistItems mirrors the current line items to the store. Callers hold the
// lock.
func (m *Machine) persistItems(ctx context.Context) {
	m.persist(ctx, storage.KeyCartItems, m.items)
}

func (m *Machine) persist(ctx context.Context, key string, value any) {
	if err := m.store.Write(ctx, key, value); err != nil && m.logg != nil {
		m.logg.Warn(ctx, "persisting "+key+": "+err.Error())
	}
}
