package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
)

// Address is a saved entry in a customer's address book.
type Address struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID          `gorm:"column:customer_id;type:uuid;not null;index"`
	FullName   string             `gorm:"column:full_name;not null"`
	Phone      string             `gorm:"column:phone;not null"`
	Line1      string             `gorm:"column:line1;not null"`
	Line2      string             `gorm:"column:line2"`
	City       string             `gorm:"column:city;not null"`
	State      string             `gorm:"column:state;not null"`
	Zip        string             `gorm:"column:zip;not null"`
	Label      enums.AddressLabel `gorm:"column:label;not null;default:'Home'"`
	IsDefault  bool               `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
