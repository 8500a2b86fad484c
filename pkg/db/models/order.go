package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
)

// ShippingSnapshot is the address copied onto the order at checkout. It is
// deliberately denormalized: later edits to the customer's address book must
// not alter historical orders.
type ShippingSnapshot struct {
	FullName string `gorm:"column:ship_full_name" json:"fullName"`
	Phone    string `gorm:"column:ship_phone" json:"phone"`
	Email    string `gorm:"column:ship_email" json:"email"`
	Street   string `gorm:"column:ship_street" json:"street"`
	City     string `gorm:"column:ship_city" json:"city"`
	State    string `gorm:"column:ship_state" json:"state"`
	Pincode  string `gorm:"column:ship_pincode" json:"pincode"`
	Notes    string `gorm:"column:ship_notes" json:"notes"`
}

// Order is the central transactional entity. OrderNumber is the short
// human-readable identifier ("ODR" + 6 digits) enforced unique by the store.
type Order struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID      uuid.UUID          `gorm:"column:customer_id;type:uuid;not null;index"`
	Customer        *Registration      `gorm:"foreignKey:CustomerID"`
	OrderNumber     string             `gorm:"column:order_number;not null;uniqueIndex:uq_orders_order_number"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ItemsPrice      float64            `gorm:"column:items_price;not null;default:0"`
	ShippingPrice   float64            `gorm:"column:shipping_price;not null;default:0"`
	Total           float64            `gorm:"column:total;not null;default:0"`
	PaymentMode     enums.PaymentMode  `gorm:"column:payment_mode;not null;default:'COD'"`
	AdvancePaid     float64            `gorm:"column:advance_paid;not null;default:0"`
	RemainingAmount float64            `gorm:"column:remaining_amount;not null;default:0"`
	Status          enums.OrderStatus  `gorm:"column:status;not null;default:'pending'"`
	Shipping        ShippingSnapshot   `gorm:"embedded"`
	IsShipped       bool               `gorm:"column:is_shipped;not null;default:false"`
	CourierName     string             `gorm:"column:courier_name"`
	TrackingID      string             `gorm:"column:tracking_id"`
	IsDelivered     bool               `gorm:"column:is_delivered;not null;default:false"`
	DeliveredAt     *time.Time         `gorm:"column:delivered_at"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
