package payment

import (
	"context"
	"sync"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/types"
)

// Gateway is the remote surface the payment workflow depends on.
type Gateway interface {
	PayPalClientID(ctx context.Context) (string, error)
	PayOrder(ctx context.Context, id string) (types.Order, error)
}

// Workflow tracks the checkout payment leg: the PayPal client id used to
// bootstrap the button, and the lifecycle of marking an order paid.
type Workflow struct {
	mu sync.Mutex
	gw Gateway

	clientID string
	paid     *types.Order
	status   enums.WorkflowStatus
	lastErr  error
}

func NewWorkflow(gw Gateway) *Workflow {
	return &Workflow{gw: gw, status: enums.WorkflowStatusIdle}
}

// FetchClientID loads the PayPal client id from the backend and caches it.
func (w *Workflow) FetchClientID(ctx context.Context) (string, error) {
	w.begin()

	clientID, err := w.gw.PayPalClientID(ctx)
	if err != nil {
		w.fail(err)
		return "", err
	}

	w.mu.Lock()
	w.clientID = clientID
	w.status = enums.WorkflowStatusSucceeded
	w.mu.Unlock()
	return clientID, nil
}

// Pay marks the order paid on the backend and attaches the updated order.
func (w *Workflow) Pay(ctx context.Context, orderID string) (types.Order, error) {
	w.begin()

	order, err := w.gw.PayOrder(ctx, orderID)
	if err != nil {
		w.fail(err)
		return types.Order{}, err
	}

	w.mu.Lock()
	w.paid = &order
	w.status = enums.WorkflowStatusSucceeded
	w.mu.Unlock()
	return order, nil
}

// Reset returns the workflow to idle, dropping the paid order and any
// recorded error. The cached client id survives: it is configuration, not
// per-order state.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.paid = nil
	w.status = enums.WorkflowStatusIdle
	w.lastErr = nil
}

// ClientID returns the cached PayPal client id, if fetched.
func (w *Workflow) ClientID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clientID
}

// Paid returns the order attached by the last successful Pay, if any.
func (w *Workflow) Paid() (types.Order, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.paid == nil {
		return types.Order{}, false
	}
	return *w.paid, true
}

func (w *Workflow) Status() enums.WorkflowStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

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

func (w *Workflow) fail(err error) {
	w.mu.Lock()
	w.status = enums.WorkflowStatusFailed
	w.lastErr = err
	w.mu.Unlock()
}
