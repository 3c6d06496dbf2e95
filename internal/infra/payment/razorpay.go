package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"cinebook/internal/pkg/config"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/commands"
)

const maxErrorBody = 4 << 10

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

type refundResponse struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// RazorpayGateway speaks the Razorpay orders and refunds APIs and its
// checkout signature scheme.
type RazorpayGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	logger    *slog.Logger
}

func NewRazorpayGateway(cfg config.PaymentConfig, logger *slog.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*commands.PaymentOrder, error) {
	var out orderResponse
	if err := g.post(ctx, "/v1/orders", orderRequest{Amount: amount, Currency: currency, Receipt: receipt}, &out); err != nil {
		g.logger.Warn("payment provider rejected order", slog.String("receipt", receipt), slog.String("error", err.Error()))
		return nil, err
	}
	if out.ID == "" {
		return nil, errs.New("payment provider returned an order without id")
	}

	return &commands.PaymentOrder{OrderID: out.ID, Amount: out.Amount, Currency: out.Currency}, nil
}

// Refund issues a partial or full refund against a captured payment.
func (g *RazorpayGateway) Refund(ctx context.Context, paymentID string, amount int64) (*commands.RefundReceipt, error) {
	var out refundResponse
	path := "/v1/payments/" + url.PathEscape(paymentID) + "/refund"
	if err := g.post(ctx, path, refundRequest{Amount: amount}, &out); err != nil {
		g.logger.Warn("payment provider rejected refund", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, err
	}
	if out.ID == "" {
		return nil, errs.New("payment provider returned a refund without id")
	}

	return &commands.RefundReceipt{ID: out.ID, Amount: out.Amount, Status: out.Status}, nil
}

func (g *RazorpayGateway) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errs.Wrap(err, "encode provider request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build provider request")
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "call payment provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.Newf("payment provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrapf(err, "decode %s response", path)
	}
	return nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(g.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes hex(HMAC-SHA256(secret, orderID|paymentID)).
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
