package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures the snapshot of each line within an order. Qty is in
// pieces; when PiecesPerInner is positive, Inners holds ceil(Qty/PiecesPerInner).
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	Image          string     `gorm:"column:image"`
	Qty            int        `gorm:"column:qty;not null"`
	Price          float64    `gorm:"column:price;not null"`
	PiecesPerInner int        `gorm:"column:pieces_per_inner;not null;default:0"`
	Inners         int        `gorm:"column:inners;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
