package catalog

import (
	"context"
	"sync"

	"github.com/rmontanez/shopfront/pkg/types"
)

// Gateway is the remote surface the catalog workflow depends on.
type Gateway interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	ProductBySlug(ctx context.Context, slug string) (types.Product, error)
	CreateProduct(ctx context.Context, product types.Product) (types.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Workflow owns the browsing state: the product list, the product detail
// currently in view, and loading/error bookkeeping for the remote calls.
type Workflow struct {
	mu sync.Mutex
	gw Gateway

	products []types.Product
	detail   *types.Product
	loading  bool
	lastErr  error
}

func NewWorkflow(gw Gateway) *Workflow {
	return &Workflow{gw: gw}
}

// FetchProducts replaces the held list with the backend catalog.
func (w *Workflow) FetchProducts(ctx context.Context) ([]types.Product, error) {
	w.begin()

	products, err := w.gw.ListProducts(ctx)
	if err != nil {
		w.fail(err)
		return nil, err
	}

	w.mu.Lock()
	w.products = products
	w.loading = false
	w.mu.Unlock()
	return products, nil
}

// FetchDetail loads one product by slug. The held detail is dropped when
// loading starts so a stale product never renders against a new slug.
func (w *Workflow) FetchDetail(ctx context.Context, slug string) (types.Product, error) {
	w.mu.Lock()
	w.loading = true
	w.lastErr = nil
	w.detail = nil
	w.mu.Unlock()

	product, err := w.gw.ProductBySlug(ctx, slug)
	if err != nil {
		w.fail(err)
		return types.Product{}, err
	}

	w.mu.Lock()
	w.detail = &product
	w.loading = false
	w.mu.Unlock()
	return product, nil
}

// AddProduct creates a catalog entry and appends it to the held list.
func (w *Workflow) AddProduct(ctx context.Context, product types.Product) (types.Product, error) {
	w.begin()

	created, err := w.gw.CreateProduct(ctx, product)
	if err != nil {
		w.fail(err)
		return types.Product{}, err
	}

	w.mu.Lock()
	w.products = append(w.products, created)
	w.loading = false
	w.mu.Unlock()
	return created, nil
}

// DeleteProduct removes the entry remotely, then filters it out of the held
// list.
func (w *Workflow) DeleteProduct(ctx context.Context, id string) error {
	w.begin()

	if err := w.gw.DeleteProduct(ctx, id); err != nil {
		w.fail(err)
		return err
	}

	w.mu.Lock()
	filtered := w.products[:0]
	for _, product := range w.products {
		if product.ID != id {
			filtered = append(filtered, product)
		}
	}
	w.products = filtered
	w.loading = false
	w.mu.Unlock()
	return nil
}

// Products returns a copy of the held list.
func (w *Workflow) Products() []types.Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	products := make([]types.Product, len(w.products))
	copy(products, w.products)
	return products
}

// Detail returns the product currently in view, if any.
func (w *Workflow) Detail() (types.Product, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.detail == nil {
		return types.Product{}, false
	}
	return *w.detail, true
}

// Loading reports whether a remote catalog operation is in flight.
func (w *Workflow) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Err returns the error recorded by the last failed operation, if any.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Workflow) begin() {
	w.mu.Lock()
	w.loading = true
	w.lastErr = nil
	w.mu.Unlock()
}

func (w *Workflow) fail(err error) {
	w.mu.Lock()
	w.loading = false
	w.lastErr = err
	w.mu.Unlock()
}
