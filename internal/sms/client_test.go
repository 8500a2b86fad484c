package sms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.SMSConfig {
	return config.SMSConfig{
		BaseURL:       "http://sms.test/flow/",
		AuthKey:       "test-authkey",
		TemplateID:    "tpl_123",
		DLTTemplateID: "dlt_456",
		SenderID:      "BAFNAR",
		Timeout:       5 * time.Second,
	}
}

func TestClientSendRequest(t *testing.T) {
	var capturedURL string
	var capturedHeaders http.Header
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"type":"success","message":"queued"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Send(context.Background(), "9876543210", "482913"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if capturedURL != "http://sms.test/flow/" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("authkey") != "test-authkey" {
		t.Fatalf("authkey header missing")
	}
	if capturedBody["template_id"] != "tpl_123" {
		t.Fatalf("unexpected template id %v", capturedBody["template_id"])
	}
	if capturedBody["mobiles"] != "919876543210" {
		t.Fatalf("unexpected mobiles %v", capturedBody["mobiles"])
	}
	if capturedBody["OTP"] != "482913" {
		t.Fatalf("unexpected otp %v", capturedBody["OTP"])
	}
}

func TestClientSendGatewayError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"type":"error","message":"invalid authkey"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), "9876543210", "482913")
	if err == nil {
		t.Fatal("expected error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected code %v", pkgerrors.As(err).Code())
	}
}

func TestClientSendRejectedBody(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"type":"error","message":"template blocked"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient(testConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Send(context.Background(), "9876543210", "482913"); err == nil {
		t.Fatal("expected error for gateway-rejected message")
	}
}

func TestNewClientRequiresAuthKey(t *testing.T) {
	cfg := testConfig()
	cfg.AuthKey = "  "
	if _, err := NewClient(cfg); err == nil {
		t.Fatal("expected error")
	}
}
