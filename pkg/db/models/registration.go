package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration represents a wholesale buyer account. The normalized OTP
// mobile number is the canonical identity key; IsApproved is tri-state
// (nil = pending review, true = approved, false = rejected).
type Registration struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FirmName        string    `gorm:"column:firm_name;not null"`
	ShopName        string    `gorm:"column:shop_name;not null"`
	State           string    `gorm:"column:state"`
	City            string    `gorm:"column:city"`
	Zip             string    `gorm:"column:zip"`
	OTPMobile       string    `gorm:"column:otp_mobile;not null;uniqueIndex:uq_registrations_otp_mobile"`
	Whatsapp        string    `gorm:"column:whatsapp"`
	PasswordHash    string    `gorm:"column:password_hash"`
	VisitingCardURL string    `gorm:"column:visiting_card_url"`
	IsApproved      *bool     `gorm:"column:is_approved"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
