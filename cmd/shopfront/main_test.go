package main

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rmontanez/shopfront/internal/app"
	"github.com/rmontanez/shopfront/internal/storage"
	"github.com/rmontanez/shopfront/internal/stubapi"
	"github.com/rmontanez/shopfront/pkg/config"
	pkgerrors "github.com/rmontanez/shopfront/pkg/errors"
	"github.com/rmontanez/shopfront/pkg/logger"
	"github.com/rmontanez/shopfront/pkg/types"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	srv := httptest.NewServer(stubapi.New().Handler())
	t.Cleanup(srv.Close)

	logg := logger.New(logger.Options{ServiceName: "shopfront-test", Output: io.Discard})
	a, err := app.New(context.Background(), &config.Config{}, logg,
		app.WithStore(storage.NewMemoryStore()),
		app.WithBaseURL(srv.URL),
		app.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("assemble app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// seedScarceProduct signs in as the stub admin and creates a one-in-stock
// product, returning its id.
func seedScarceProduct(t *testing.T, a *app.App) string {
	t.Helper()
	ctx := context.Background()

	if _, err := a.Session.SignIn(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("signin: %v", err)
	}
	created, err := a.Catalog.AddProduct(ctx, types.Product{
		Name:         "Rare Hat",
		Slug:         "rare-hat",
		Price:        decimal.NewFromInt(30),
		CountInStock: 1,
	})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	return created.ID
}

func TestAddRefusesBeyondStockCeiling(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	id := seedScarceProduct(t, a)

	if err := cmdAdd(ctx, a, []string{"rare-hat"}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	err := cmdAdd(ctx, a, []string{"rare-hat"})
	if err == nil {
		t.Fatal("expected refusal when adding past the stock ceiling")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	snap := a.Cart.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != id || snap.Items[0].Quantity != 1 {
		t.Fatalf("cart changed despite refusal: %+v", snap.Items)
	}
}

func TestQuantityRefusesBeyondStockCeiling(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	id := seedScarceProduct(t, a)

	if err := cmdAdd(ctx, a, []string{"rare-hat"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	err := cmdQuantity(ctx, a, []string{id, "99"})
	if err == nil {
		t.Fatal("expected refusal when raising quantity past the stock ceiling")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if got := a.Cart.Snapshot().Items[0].Quantity; got != 1 {
		t.Fatalf("quantity = %d, want 1", got)
	}
}
