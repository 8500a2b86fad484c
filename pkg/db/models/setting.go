package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a keyed bag of admin-tunable configuration, e.g. the "cod"
// setting carries {"advanceAmount": 500}.
type Setting struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Key       string         `gorm:"column:key;not null;uniqueIndex:uq_settings_key"`
	Data      map[string]any `gorm:"column:data;serializer:json"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ShippingSetting is the singleton flat-rate shipping configuration: orders
// below FreeShippingThreshold pay ShippingCharge, everything above ships free.
type ShippingSetting struct {
	ID                    uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShippingCharge        float64   `gorm:"column:shipping_charge;not null;default:250"`
	FreeShippingThreshold float64   `gorm:"column:free_shipping_threshold;not null;default:5000"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
