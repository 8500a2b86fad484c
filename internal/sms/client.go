// Package sms delivers transactional messages through the MSG91 flow API.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/phone"
)

const responseBodyReadLimit int64 = 1024

var errAuthKeyRequired = errors.New("sms auth key is required")

// Client sends DLT-compliant SMS through a flow template.
type Client struct {
	httpClient *http.Client
	cfg        config.SMSConfig
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

// NewClient builds the SMS gateway client from config.
func NewClient(cfg config.SMSConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.AuthKey) == "" {
		return nil, errAuthKeyRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type flowRequest struct {
	TemplateID    string `json:"template_id"`
	DLTTemplateID string `json:"DLT_TE_ID,omitempty"`
	Sender        string `json:"sender"`
	Mobiles       string `json:"mobiles"`
	OTP           string `json:"OTP"`
}

// Send dispatches a login code to the phone via the flow template. The
// template substitutes the OTP variable, so the code travels as-is.
func (c *Client) Send(ctx context.Context, phoneNumber, code string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "sms client not configured")
	}

	payload, err := json.Marshal(flowRequest{
		TemplateID:    c.cfg.TemplateID,
		DLTTemplateID: c.cfg.DLTTemplateID,
		Sender:        c.cfg.SenderID,
		Mobiles:       phone.E164(phoneNumber),
		OTP:           code,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal sms request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sms request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("authkey", c.cfg.AuthKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sms request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "sms request failed")
	}

	var apiResp struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		// Treat an unreadable 200 as delivered; the gateway accepted it.
		return nil
	}
	if strings.EqualFold(apiResp.Type, "error") {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("gateway error: %s", apiResp.Message), "sms request rejected")
	}
	return nil
}
