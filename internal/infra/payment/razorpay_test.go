//go:build unit

package payment_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinebook/internal/infra/payment"
	"cinebook/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(baseURL string) *payment.RazorpayGateway {
	return payment.NewRazorpayGateway(config.PaymentConfig{
		BaseURL:   baseURL,
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		Currency:  "INR",
		Timeout:   time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateOrder(t *testing.T) {
	t.Run("posts the order with basic auth", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/orders", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.Equal(t, "rzp_test_secret", pass)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"order_Q1","amount":40000,"currency":"INR","status":"created"}`))
		}))
		defer srv.Close()

		order, err := newGateway(srv.URL+"/").CreateOrder(context.Background(), 40000, "INR", "BKTEST1")
		require.NoError(t, err)
		assert.Equal(t, "order_Q1", order.OrderID)
		assert.Equal(t, int64(40000), order.Amount)
		assert.Equal(t, "INR", order.Currency)
		assert.Equal(t, map[string]any{"amount": float64(40000), "currency": "INR", "receipt": "BKTEST1"}, got)
	})

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "provider rejects", status: http.StatusBadRequest, body: `{"error":{"code":"BAD_REQUEST_ERROR"}}`, wantErr: "payment provider returned 400"},
		{name: "provider down", status: http.StatusServiceUnavailable, body: "", wantErr: "payment provider returned 503"},
		{name: "order without id", status: http.StatusOK, body: `{"amount":100}`, wantErr: "without id"},
		{name: "garbled body", status: http.StatusOK, body: `{`, wantErr: "decode /v1/orders response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newGateway(srv.URL).CreateOrder(context.Background(), 100, "INR", "BK1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newGateway(srv.URL).CreateOrder(ctx, 100, "INR", "BK1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRefund(t *testing.T) {
	t.Run("posts the amount in paise to the payment", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payments/pay_Q1/refund", r.URL.Path)
			user, _, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"rfnd_Q1","entity":"refund","amount":49950,"payment_id":"pay_Q1","status":"processed"}`))
		}))
		defer srv.Close()

		receipt, err := newGateway(srv.URL).Refund(context.Background(), "pay_Q1", 49950)
		require.NoError(t, err)
		assert.Equal(t, "rfnd_Q1", receipt.ID)
		assert.Equal(t, int64(49950), receipt.Amount)
		assert.Equal(t, "processed", receipt.Status)
		assert.Equal(t, map[string]any{"amount": float64(49950)}, got)
	})

	t.Run("payment id is escaped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/payments/pay%2F..%2Forders/refund", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`{"id":"rfnd_Q2","amount":100,"status":"pending"}`))
		}))
		defer srv.Close()

		_, err := newGateway(srv.URL).Refund(context.Background(), "pay/../orders", 100)
		require.NoError(t, err)
	})

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "amount exceeds captured", status: http.StatusBadRequest, body: `{"error":{"code":"BAD_REQUEST_ERROR","description":"The refund amount provided is greater than amount captured"}}`, wantErr: "greater than amount captured"},
		{name: "provider down", status: http.StatusBadGateway, body: "", wantErr: "payment provider returned 502"},
		{name: "refund without id", status: http.StatusOK, body: `{"amount":100}`, wantErr: "without id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newGateway(srv.URL).Refund(context.Background(), "pay_Q1", 100)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	g := newGateway("http://unused")
	sig := payment.Sign("rzp_test_secret", "order_Q1", "pay_Q1")

	assert.Len(t, sig, 64)
	assert.True(t, g.VerifySignature("order_Q1", "pay_Q1", sig))
	assert.False(t, g.VerifySignature("order_Q1", "pay_Q2", sig))
	assert.False(t, g.VerifySignature("order_Q1", "pay_Q1", payment.Sign("other", "order_Q1", "pay_Q1")))
	assert.False(t, g.VerifySignature("order_Q1", "pay_Q1", ""))
}
