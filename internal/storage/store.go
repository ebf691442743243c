package storage

import "context"

// Fixed blob keys shared by the state machines. Each key maps to one whole
// JSON value; writers always replace the entire blob.
const (
	KeyCartItems       = "cartItems"
	KeyShippingAddress = "shippingAddress"
	KeyPaymentMethod   = "paymentMethod"
	KeyUserInfo        = "userInfo"
)

// Store persists opaque JSON blobs under fixed keys. Last write wins; there is
// no merge logic and no partial update.
//
// Read reports false when the key is absent. A stored blob that no longer
// parses as JSON also reads as absent: corruption degrades to empty state, it
// never surfaces as an error.
type Store interface {
	Write(ctx context.Context, key string, value any) error
	Read(ctx context.Context, key string, dest any) (bool, error)
	Clear(ctx context.Context, key string) error
	Close() error
}
