package paymentgateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/freshnest/backoffice/internal"
)

// Order is the gateway-side order a checkout is opened against.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentDetails is the gateway's view of a captured payment.
type PaymentDetails struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

// Refund is the gateway's record of a refund.
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// Client talks to a Razorpay-compatible gateway over its REST API. The base
// URL is configurable so tests can point it at a stub server.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	now       func() time.Time
}

func NewClient(cfg internal.RazorpayConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

// ToPaise converts a rupee amount to the integer paise the gateway expects.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder opens a gateway order for the given rupee amount.
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency string) (*Order, error) {
	if currency == "" {
		currency = "INR"
	}
	payload := map[string]interface{}{
		"amount":   ToPaise(amount),
		"currency": currency,
		"receipt":  fmt.Sprintf("order_%d", c.now().Unix()),
	}

	var order Order
	if err := c.post(ctx, "/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 over
// "<order_id>|<payment_id>" with the key secret, hex encoded. Comparison is
// constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*PaymentDetails, error) {
	var details PaymentDetails
	if err := c.get(ctx, "/payments/"+paymentID, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// RefundPayment refunds the given rupee amount; zero refunds the full payment.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount float64) (*Refund, error) {
	payload := map[string]interface{}{}
	if amount > 0 {
		payload["amount"] = ToPaise(amount)
	}

	var refund Refund
	if err := c.post(ctx, "/payments/"+paymentID+"/refund", payload, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return internal.NewInternalError("payment gateway request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return internal.NewInternalError("failed to read gateway response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return internal.NewInternalError(
			fmt.Sprintf("payment gateway returned %d: %s", resp.StatusCode, string(body)), nil)
	}
	return json.Unmarshal(body, out)
}
