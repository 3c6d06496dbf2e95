//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"cinebook/internal/infra/payment"
	"cinebook/internal/usecase/commands"

	"github.com/google/uuid"
)

const testPaymentSecret = "test-secret"

type fakeGateway struct {
	mu        sync.Mutex
	orders    int
	createErr error
	refundErr error
	refunds   []refundCall
}

type refundCall struct {
	PaymentID string
	Amount    int64
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, _ string) (*commands.PaymentOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.orders++
	return &commands.PaymentOrder{OrderID: fmt.Sprintf("order_%d", g.orders), Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.Sign(testPaymentSecret, orderID, paymentID) == signature
}

func (g *fakeGateway) Refund(_ context.Context, paymentID string, amount int64) (*commands.RefundReceipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, refundCall{PaymentID: paymentID, Amount: amount})
	return &commands.RefundReceipt{ID: fmt.Sprintf("rfnd_%d", len(g.refunds)), Amount: amount, Status: "processed"}, nil
}

func (g *fakeGateway) Refunds() []refundCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]refundCall(nil), g.refunds...)
}

type fakeTickets struct {
	err error
}

func (t *fakeTickets) Generate(payload string) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return "data:image/png;base64," + fmt.Sprint(len(payload)), nil
}

type recordingScheduler struct {
	mu    sync.Mutex
	armed map[uuid.UUID]time.Time
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{armed: map[uuid.UUID]time.Time{}}
}

func (r *recordingScheduler) Schedule(id uuid.UUID, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed[id] = at
}

func (r *recordingScheduler) At(id uuid.UUID) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.armed[id]
	return at, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
