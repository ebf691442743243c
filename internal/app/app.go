// Package app assembles the storefront state layer: one persisted store, one
// gateway client, and the machines and workflows that sit on top. Everything
// is constructed here and handed to the caller; nothing in the tree reaches
// for package-level singletons.
package app

import (
	"context"
	"net/http"

	"github.com/rmontanez/shopfront/pkg/config"
	pkgerrors "github.com/rmontanez/shopfront/pkg/errors"
	"github.com/rmontanez/shopfront/pkg/logger"

	"github.com/rmontanez/shopfront/internal/cart"
	"github.com/rmontanez/shopfront/internal/catalog"
	"github.com/rmontanez/shopfront/internal/gateway"
	"github.com/rmontanez/shopfront/internal/order"
	"github.com/rmontanez/shopfront/internal/payment"
	"github.com/rmontanez/shopfront/internal/session"
	"github.com/rmontanez/shopfront/internal/storage"
)

// App is the assembled state layer.
type App struct {
	Store   storage.Store
	Gateway *gateway.Client
	Cart    *cart.Machine
	Session *session.Machine
	Orders  *order.Workflow
	Catalog *catalog.Workflow
	Payment *payment.Workflow

	logg *logger.Logger
}

// Option adjusts construction, mostly for tests.
type Option func(*options)

type options struct {
	store      storage.Store
	httpClient *http.Client
	baseURL    string
}

// WithStore bypasses the configured store and uses the given one. The app
// takes ownership and closes it on Close.
func WithStore(store storage.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHTTPClient overrides the gateway transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithBaseURL overrides the configured backend root.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// New wires the whole state layer from configuration. Signing out resets the
// cart; nothing else couples the machines to each other.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	store := o.store
	if store == nil {
		if cfg.Storage.InMemory {
			store = storage.NewMemoryStore()
		} else {
			opened, err := storage.OpenSQLite(ctx, cfg.Storage.Path, logg)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "open persisted store")
			}
			store = opened
		}
	}

	baseURL := o.baseURL
	if baseURL == "" {
		resolved, err := cfg.API.ResolveBaseURL(cfg.App)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		baseURL = resolved
	}

	gwOpts := []gateway.Option{
		gateway.WithTokenSource(gateway.NewStoreTokenSource(store)),
		gateway.WithLogger(logg),
	}
	if o.httpClient != nil {
		gwOpts = append(gwOpts, gateway.WithHTTPClient(o.httpClient))
	}
	gw, err := gateway.NewClient(baseURL, gwOpts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	cartMachine := cart.NewMachine(ctx, store, logg)
	sessionMachine := session.NewMachine(ctx, gw, store, logg)
	sessionMachine.OnSignOut(func(ctx context.Context) {
		cartMachine.Reset(ctx)
	})

	return &App{
		Store:   store,
		Gateway: gw,
		Cart:    cartMachine,
		Session: sessionMachine,
		Orders:  order.NewWorkflow(gw),
		Catalog: catalog.NewWorkflow(gw),
		Payment: payment.NewWorkflow(gw),
		logg:    logg,
	}, nil
}

// Close releases the persisted store.
func (a *App) Close() error {
	return a.Store.Close()
}
