package shipping

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testShippingConfig() config.ShippingConfig {
	return config.ShippingConfig{
		BaseURL:       "http://carrier.test/api",
		AccessToken:   "token-1",
		SecretKey:     "secret-1",
		WarehouseID:   "wh-99",
		PickupPincode: "641007",
		ReturnName:    "Bafnatoys",
		ReturnPhone:   "9043347300",
		ReturnAddress: "1-12, Sundapalayam Rd, Coimbatore",
		Timeout:       5 * time.Second,
	}
}

func codOrder() *models.Order {
	return &models.Order{
		OrderNumber:     "ODR123456",
		PaymentMode:     enums.PaymentModeCOD,
		Total:           1299.4,
		AdvancePaid:     300,
		RemainingAmount: 999.4,
		Items: []models.OrderItem{
			{Name: "Spinning Top", Qty: 6, Price: 100},
			{Name: "Rattle", Qty: 4, Price: 50},
		},
		Shipping: models.ShippingSnapshot{
			FullName: "Ravi Traders",
			Phone:    "+91 98765 43210",
			Street:   "12 Market Rd",
			City:     "Salem",
			State:    "Tamil Nadu",
			Pincode:  " 636001 ",
		},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(testShippingConfig(), WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestBookOrderPayload(t *testing.T) {
	var capturedURL string
	var captured map[string]any

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		return jsonResponse(http.StatusOK, `{"data":[{"status":"success","waybill":"WB001"}]}`), nil
	})

	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	waybill, err := client.BookOrder(context.Background(), codOrder(), now)
	require.NoError(t, err)
	assert.Equal(t, "WB001", waybill)
	assert.Equal(t, "http://carrier.test/api/order/add.json", capturedURL)

	assert.Equal(t, "token-1", captured["access_token"])
	assert.Equal(t, "secret-1", captured["secret_key"])
	assert.Equal(t, "wh-99", captured["warehouse_id"])

	entries, ok := captured["data"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)

	assert.Equal(t, "Ravi Traders", entry["consignee_name"])
	assert.Equal(t, "9876543210", entry["consignee_mobile"])
	assert.Equal(t, "636001", entry["consignee_pincode"])
	assert.Equal(t, "COD", entry["order_type"])
	assert.Equal(t, "ODR123456", entry["order_id"])
	assert.Equal(t, "2026-03-14", entry["order_date"])
	assert.Equal(t, float64(999), entry["collectable_amount"])
	assert.Equal(t, float64(1299), entry["product_price"])
	assert.Equal(t, float64(2), entry["product_quantity"])
	assert.Equal(t, "wh-99", entry["pickup_address_id"])
	assert.Equal(t, "641007", entry["pickup_pincode"])
	assert.Equal(t, "641007", entry["return_pincode"])
	assert.Equal(t, "Bafnatoys", entry["return_name"])
}

func TestBookOrderPrepaidHasNoCollectable(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		return jsonResponse(http.StatusOK, `{"status":"1","waybill":"WB777"}`), nil
	})

	order := codOrder()
	order.PaymentMode = enums.PaymentModeOnline

	waybill, err := client.BookOrder(context.Background(), order, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "WB777", waybill)

	entry := captured["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Prepaid", entry["order_type"])
	assert.Equal(t, float64(0), entry["collectable_amount"])
}

func TestBookOrderNestedWaybill(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[{"status":"success","data":{"waybill":"WB555"}}]}`), nil
	})

	waybill, err := client.BookOrder(context.Background(), codOrder(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "WB555", waybill)
}

func TestBookOrderCarrierRejection(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[{"status":"error","msg":"invalid pincode"}]}`), nil
	})

	_, err := client.BookOrder(context.Background(), codOrder(), time.Now())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "invalid pincode")
}

func TestBookOrderGatewayFailure(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	})

	_, err := client.BookOrder(context.Background(), codOrder(), time.Now())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestNewClientRequiresCredentials(t *testing.T) {
	cfg := testShippingConfig()
	cfg.SecretKey = ""
	_, err := NewClient(cfg)
	require.Error(t, err)
}

func TestBookOrderDefaultsMissingConsigneeFields(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		return jsonResponse(http.StatusOK, `{"status":"success","waybill":"WB002"}`), nil
	})

	order := codOrder()
	order.Items = nil
	order.Shipping.FullName = ""
	order.Shipping.Street = ""
	order.Shipping.Email = ""

	_, err := client.BookOrder(context.Background(), order, time.Now())
	require.NoError(t, err)

	entry := captured["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Customer", entry["consignee_name"])
	assert.Equal(t, "Address Missing", entry["consignee_address"])
	assert.Equal(t, "bafnatoys@gmail.com", entry["consignee_email"])
	assert.Equal(t, float64(1), entry["product_quantity"])
}
