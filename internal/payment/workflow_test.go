package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/types"
)

type stubGateway struct {
	clientID string
	paid     types.Order
	err      error
	paidID   string
}

func (s *stubGateway) PayPalClientID(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.clientID, nil
}

func (s *stubGateway) PayOrder(ctx context.Context, id string) (types.Order, error) {
	if s.err != nil {
		return types.Order{}, s.err
	}
	s.paidID = id
	return s.paid, nil
}

func TestFetchClientIDCaches(t *testing.T) {
	w := NewWorkflow(&stubGateway{clientID: "sb-client"})

	got, err := w.FetchClientID(context.Background())
	if err != nil {
		t.Fatalf("FetchClientID: %v", err)
	}
	if got != "sb-client" {
		t.Errorf("client id = %q", got)
	}
	if w.ClientID() != "sb-client" {
		t.Errorf("cached client id = %q", w.ClientID())
	}
	if w.Status() != enums.WorkflowStatusSucceeded {
		t.Errorf("status = %v", w.Status())
	}
}

func TestPayAttachesUpdatedOrder(t *testing.T) {
	gw := &stubGateway{paid: types.Order{ID: "o1", IsPaid: true}}
	w := NewWorkflow(gw)

	order, err := w.Pay(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if gw.paidID != "o1" {
		t.Errorf("paid order id = %q", gw.paidID)
	}
	if !order.IsPaid {
		t.Error("returned order not marked paid")
	}
	if held, ok := w.Paid(); !ok || held.ID != "o1" {
		t.Errorf("Paid() = %+v, %v", held, ok)
	}
}

func TestPayFailureRecordsError(t *testing.T) {
	cause := errors.New("card declined")
	w := NewWorkflow(&stubGateway{err: cause})

	if _, err := w.Pay(context.Background(), "o1"); !errors.Is(err, cause) {
		t.Fatalf("err = %v, want %v", err, cause)
	}
	if w.Status() != enums.WorkflowStatusFailed {
		t.Errorf("status = %v", w.Status())
	}
	if !errors.Is(w.Err(), cause) {
		t.Errorf("Err() = %v", w.Err())
	}
}

func TestResetKeepsClientID(t *testing.T) {
	w := NewWorkflow(&stubGateway{clientID: "sb-client", paid: types.Order{ID: "o1"}})
	if _, err := w.FetchClientID(context.Background()); err != nil {
		t.Fatalf("FetchClientID: %v", err)
	}
	if _, err := w.Pay(context.Background(), "o1"); err != nil {
		t.Fatalf("Pay: %v", err)
	}

	w.Reset()

	if w.Status() != enums.WorkflowStatusIdle {
		t.Errorf("status = %v", w.Status())
	}
	if _, ok := w.Paid(); ok {
		t.Error("paid order survived reset")
	}
	if w.ClientID() != "sb-client" {
		t.Errorf("client id dropped by reset: %q", w.ClientID())
	}
}
