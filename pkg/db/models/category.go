package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups catalog products; DisplayOrder drives manual sorting.
type Category struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;not null;uniqueIndex:uq_categories_name"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
