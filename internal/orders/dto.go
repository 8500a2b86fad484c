package orders

import (
	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
)

// LineItemInput is one requested order line. Price is the per-piece rate the
// storefront resolved from the product's bulk tiers; qty is in pieces.
type LineItemInput struct {
	ProductID      *uuid.UUID
	Name           string
	Image          string
	Qty            int
	Price          float64
	PiecesPerInner int
}

// ShippingInput is the address captured at checkout.
type ShippingInput struct {
	FullName string
	Phone    string
	Email    string
	Street   string
	City     string
	State    string
	Pincode  string
	Notes    string
}

// CreateInput carries everything needed to place an order. Item and shipping
// prices are recomputed server-side; only the advance is taken at face value.
type CreateInput struct {
	CustomerID  uuid.UUID
	Items       []LineItemInput
	PaymentMode string
	AdvancePaid float64
	Shipping    ShippingInput
}

// ListFilters narrows the order listing.
type ListFilters struct {
	CustomerID *uuid.UUID
}

// ShipmentInput records a booked consignment on an order.
type ShipmentInput struct {
	CourierName string
	TrackingID  string
}

func (in ShippingInput) snapshot() models.ShippingSnapshot {
	return models.ShippingSnapshot{
		FullName: in.FullName,
		Phone:    in.Phone,
		Email:    in.Email,
		Street:   in.Street,
		City:     in.City,
		State:    in.State,
		Pincode:  in.Pincode,
		Notes:    in.Notes,
	}
}
