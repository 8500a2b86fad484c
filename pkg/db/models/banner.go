package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner is a storefront hero image.
type Banner struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title        string    `gorm:"column:title"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	Link         string    `gorm:"column:link"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
