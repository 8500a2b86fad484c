// Package shipping books consignments with the logistics carrier and records
// the resulting waybill on the order.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/phone"
)

const (
	// CourierName is recorded on every order booked through this carrier.
	CourierName = "iThinkLogistics"

	responseBodyReadLimit int64 = 2048

	defaultShipmentHeightCM = 10
	defaultShipmentWidthCM  = 10
	defaultShipmentLengthCM = 10
	defaultShipmentWeightKG = 0.5
)

var errCredentialsRequired = errors.New("shipping carrier credentials are required")

// Client talks to the carrier's order API.
type Client struct {
	httpClient *http.Client
	cfg        config.ShippingConfig
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

// NewClient builds the carrier client from config.
func NewClient(cfg config.ShippingConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errCredentialsRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
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

// consignment mirrors the carrier's order/add payload entry. Dimensions and
// weight are fixed defaults; the warehouse handles actual packaging.
type consignment struct {
	ShipmentHeight int     `json:"shipment_height"`
	ShipmentWidth  int     `json:"shipment_width"`
	ShipmentLength int     `json:"shipment_length"`
	ShipmentWeight float64 `json:"shipment_weight"`

	PickupAddressID        string `json:"pickup_address_id"`
	LoginCustomerAddressID int    `json:"login_customer_address_id"`

	ConsigneeName    string `json:"consignee_name"`
	ConsigneeMobile  string `json:"consignee_mobile"`
	ConsigneeEmail   string `json:"consignee_email"`
	ConsigneeAddress string `json:"consignee_address"`
	ConsigneePincode string `json:"consignee_pincode"`
	ConsigneeCity    string `json:"consignee_city"`
	ConsigneeState   string `json:"consignee_state"`

	OrderType         string  `json:"order_type"`
	OrderID           string  `json:"order_id"`
	OrderDate         string  `json:"order_date"`
	CollectableAmount float64 `json:"collectable_amount"`

	ProductName     string  `json:"product_name"`
	ProductQuantity int     `json:"product_quantity"`
	ProductPrice    float64 `json:"product_price"`

	PickupPincode string `json:"pickup_pincode"`
	ReturnName    string `json:"return_name"`
	ReturnPhone   string `json:"return_phone"`
	ReturnAddress string `json:"return_address"`
	ReturnPincode string `json:"return_pincode"`
}

type bookRequest struct {
	Data        []consignment `json:"data"`
	AccessToken string        `json:"access_token"`
	SecretKey   string        `json:"secret_key"`
	WarehouseID string        `json:"warehouse_id"`
}

type bookResult struct {
	Status  string          `json:"status"`
	Waybill string          `json:"waybill"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// resolveResult unwraps the carrier's inconsistent envelope: the result is
// sometimes at the top level and sometimes the first entry of a data array.
func resolveResult(body io.Reader) (bookResult, error) {
	var top bookResult
	if err := json.NewDecoder(body).Decode(&top); err != nil {
		return bookResult{}, err
	}
	if len(top.Data) > 0 {
		var entries []bookResult
		if err := json.Unmarshal(top.Data, &entries); err == nil && len(entries) > 0 {
			return entries[0], nil
		}
	}
	return top, nil
}

func (r bookResult) nestedWaybill() string {
	if len(r.Data) == 0 {
		return ""
	}
	var nested struct {
		Waybill string `json:"waybill"`
	}
	if err := json.Unmarshal(r.Data, &nested); err != nil {
		return ""
	}
	return nested.Waybill
}

func (c *Client) buildConsignment(order *models.Order, now time.Time) consignment {
	consigneeName := strings.TrimSpace(order.Shipping.FullName)
	if consigneeName == "" {
		consigneeName = "Customer"
	}
	consigneeEmail := strings.TrimSpace(order.Shipping.Email)
	if consigneeEmail == "" {
		consigneeEmail = "bafnatoys@gmail.com"
	}
	consigneeAddress := strings.TrimSpace(order.Shipping.Street)
	if consigneeAddress == "" {
		consigneeAddress = "Address Missing"
	}
	quantity := len(order.Items)
	if quantity == 0 {
		quantity = 1
	}

	orderType := "Prepaid"
	collectable := float64(0)
	if order.PaymentMode == enums.PaymentModeCOD {
		orderType = "COD"
		collectable = math.Round(order.RemainingAmount)
	}

	return consignment{
		ShipmentHeight: defaultShipmentHeightCM,
		ShipmentWidth:  defaultShipmentWidthCM,
		ShipmentLength: defaultShipmentLengthCM,
		ShipmentWeight: defaultShipmentWeightKG,

		PickupAddressID:        c.cfg.WarehouseID,
		LoginCustomerAddressID: 0,

		ConsigneeName:    consigneeName,
		ConsigneeMobile:  phone.Normalize(order.Shipping.Phone),
		ConsigneeEmail:   consigneeEmail,
		ConsigneeAddress: consigneeAddress,
		ConsigneePincode: strings.TrimSpace(order.Shipping.Pincode),
		ConsigneeCity:    order.Shipping.City,
		ConsigneeState:   order.Shipping.State,

		OrderType:         orderType,
		OrderID:           order.OrderNumber,
		OrderDate:         now.Format("2006-01-02"),
		CollectableAmount: collectable,

		ProductName:     "Toys Order",
		ProductQuantity: quantity,
		ProductPrice:    math.Round(order.Total),

		PickupPincode: c.cfg.PickupPincode,
		ReturnName:    c.cfg.ReturnName,
		ReturnPhone:   c.cfg.ReturnPhone,
		ReturnAddress: c.cfg.ReturnAddress,
		ReturnPincode: c.cfg.PickupPincode,
	}
}

// BookOrder registers the consignment with the carrier and returns the
// waybill number. The carrier wraps results inconsistently, sometimes at the
// top level and sometimes inside a data array, so both shapes are accepted.
func (c *Client) BookOrder(ctx context.Context, order *models.Order, now time.Time) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "shipping client not configured")
	}

	payload, err := json.Marshal(bookRequest{
		Data:        []consignment{c.buildConsignment(order, now)},
		AccessToken: c.cfg.AccessToken,
		SecretKey:   c.cfg.SecretKey,
		WarehouseID: c.cfg.WarehouseID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal booking request")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/order/add.json"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build booking request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute booking request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "booking request failed")
	}

	result, err := resolveResult(resp.Body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode booking response")
	}

	if result.Status == "success" || result.Status == "1" || result.Waybill != "" {
		waybill := result.Waybill
		if waybill == "" {
			waybill = result.nestedWaybill()
		}
		if waybill == "" {
			waybill = "Pending"
		}
		return waybill, nil
	}

	reason := result.Msg
	if reason == "" {
		reason = result.Message
	}
	if reason == "" {
		reason = "unknown error"
	}
	return "", pkgerrors.New(pkgerrors.CodeDependency, "carrier rejected booking: "+reason)
}
