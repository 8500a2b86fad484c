package models

import (
	"time"

	"github.com/google/uuid"
)

// BulkTier is one wholesale pricing tier: buying at least MinQty pieces
// (one or more inners) unlocks InnerPrice per piece.
type BulkTier struct {
	Inner      string  `json:"inner"`
	MinQty     int     `json:"minQty"`
	InnerPrice float64 `json:"innerPrice"`
}

// Product represents a catalog entry. Stock is tracked in pieces and is
// decremented when an order reaches delivered.
type Product struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	SKU          string     `gorm:"column:sku;not null;uniqueIndex:uq_products_sku"`
	Slug         string     `gorm:"column:slug;uniqueIndex:uq_products_slug"`
	Price        float64    `gorm:"column:price;not null;default:0"`
	MRP          float64    `gorm:"column:mrp;not null;default:0"`
	Stock        int        `gorm:"column:stock;not null;default:0"`
	Unit         string     `gorm:"column:unit;default:'Piece'"`
	Description  string     `gorm:"column:description"`
	Tagline      string     `gorm:"column:tagline"`
	PackSize     string     `gorm:"column:pack_size"`
	Images       []string   `gorm:"column:images;serializer:json"`
	CategoryID   *uuid.UUID `gorm:"column:category_id;type:uuid;index"`
	Category     *Category  `gorm:"foreignKey:CategoryID"`
	BulkPricing  []BulkTier `gorm:"column:bulk_pricing;serializer:json"`
	TaxFields    []string   `gorm:"column:tax_fields;serializer:json"`
	DisplayOrder int        `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
