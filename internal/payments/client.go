// Package payments integrates the Razorpay gateway: creating gateway orders
// for online checkout and verifying the signature posted back after payment.
package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

var errCredentialsRequired = errors.New("payment gateway credentials are required")

// GatewayOrder is the subset of the gateway's order object the API exposes.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the payment gateway over its REST API.
type Client struct {
	httpClient *http.Client
	cfg        config.PaymentsConfig
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the gateway client from config.
func NewClient(cfg config.PaymentsConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.Secret) == "" {
		return nil, errCredentialsRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// CreateOrder registers a gateway order for the given rupee amount. The
// gateway wants the amount in paise.
func (c *Client) CreateOrder(ctx context.Context, amount float64) (*GatewayOrder, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment client not configured")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	payload, err := json.Marshal(map[string]any{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_%d", c.now().UnixMilli()),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal gateway order")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/orders"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.Secret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute gateway request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "gateway order failed")
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway order")
	}
	return &order, nil
}

// VerifySignature checks the HMAC the gateway's checkout posts back after a
// payment. The signed message is "<order_id>|<payment_id>", keyed with the
// API secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id, payment id and signature required")
	}

	mac := hmac.New(sha256.New, []byte(c.cfg.Secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment signature")
	}
	return nil
}
