package order

import (
	"context"
	"sync"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/types"
)

// Gateway is the remote surface the order workflow depends on.
type Gateway interface {
	CreateOrder(ctx context.Context, order types.Order) (types.Order, error)
	OrderByID(ctx context.Context, id string) (types.Order, error)
	ListOrders(ctx context.Context) ([]types.Order, error)
}

// Workflow tracks the in-flight order submission/query lifecycle:
// idle -> loading -> succeeded | failed. Concurrent calls are not
// coordinated; whichever response lands last wins. Callers serialize via UI
// disabling, not here.
type Workflow struct {
	mu sync.Mutex
	gw Gateway

	status  enums.WorkflowStatus
	current *types.Order
	orders  []types.Order
	lastErr error
}

func NewWorkflow(gw Gateway) *Workflow {
	return &Workflow{gw: gw, status: enums.WorkflowStatusIdle}
}

// Submit sends the frozen checkout payload to the backend. The payload's
// totals are snapshots; they are never recomputed from the live cart.
func (w *Workflow) Submit(ctx context.Context, payload types.Order) (types.Order, error) {
	w.begin()

	created, err := w.gw.CreateOrder(ctx, payload)
	if err != nil {
		w.fail(err)
		return types.Order{}, err
	}

	w.mu.Lock()
	w.status = enums.WorkflowStatusSucceeded
	w.current = &created
	w.lastErr = nil
	w.mu.Unlock()
	return created, nil
}

// Fetch loads one order by id.
func (w *Workflow) Fetch(ctx context.Context, id string) (types.Order, error) {
	w.begin()

	fetched, err := w.gw.OrderByID(ctx, id)
	if err != nil {
		w.fail(err)
		return types.Order{}, err
	}

	w.mu.Lock()
	w.status = enums.WorkflowStatusSucceeded
	w.current = &fetched
	w.lastErr = nil
	w.mu.Unlock()
	return fetched, nil
}

// FetchAll loads the order list.
func (w *Workflow) FetchAll(ctx context.Context) ([]types.Order, error) {
	w.begin()

	orders, err := w.gw.ListOrders(ctx)
	if err != nil {
		w.fail(err)
		return nil, err
	}

	w.mu.Lock()
	w.status = enums.WorkflowStatusSucceeded
	w.orders = orders
	w.lastErr = nil
	w.mu.Unlock()
	return orders, nil
}

// Reset returns the workflow to idle and drops any held order, list and error.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.status = enums.WorkflowStatusIdle
	w.current = nil
	w.orders = nil
	w.lastErr = nil
}

// Status returns the current lifecycle state.
func (w *Workflow) Status() enums.WorkflowStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Order returns the held order, if any.
func (w *Workflow) Order() (types.Order, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return types.Order{}, false
	}
	return *w.current, true
}

// Orders returns a copy of the held order list.
func (w *Workflow) Orders() []types.Order {
	w.mu.Lock()
	defer w.mu.Unlock()

	orders := make([]types.Order, len(w.orders))
	copy(orders, w.orders)
	return orders
}

// Err returns the error recorded by the last failed operation, if any.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Workflow) begin() {
	w.mu.Lock()
	w.status = enums.WorkflowStatusLoading
	w.lastErr = nil
	w.mu.Unlock()
}

// fail records the rejection. Any previously fetched order stays attached so
// the presentation layer can keep rendering it alongside the error.
func (w *Workflow) fail(err error) {
	w.mu.Lock()
	w.status = enums.WorkflowStatusFailed
	w.lastErr = err
	w.mu.Unlock()
}
