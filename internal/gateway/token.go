package gateway

import (
	"context"

	"github.com/rmontanez/shopfront/internal/storage"
	"github.com/rmontanez/shopfront/pkg/types"
)

// TokenSource yields the bearer token to attach to outgoing requests, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// StoreTokenSource reads the token from the persisted session blob: an array
// holding at most one signed-in user record. An absent, corrupt or tokenless
// blob means the request goes out unauthenticated.
type StoreTokenSource struct {
	store storage.Store
}

func NewStoreTokenSource(store storage.Store) *StoreTokenSource {
	return &StoreTokenSource{store: store}
}

func (s *StoreTokenSource) Token(ctx context.Context) (string, bool) {
	if s == nil || s.store == nil {
		return "", false
	}
	var records []types.User
	found, err := s.store.Read(ctx, storage.KeyUserInfo, &records)
	if err != nil || !found || len(records) == 0 {
		return "", false
	}
	if records[0].Token == "" {
		return "", false
	}
	return records[0].Token, true
}
