package catalog

import (
	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
)

// CreateProductInput holds the payload to create a catalog product.
type CreateProductInput struct {
	Name        string
	SKU         string
	Price       float64
	MRP         float64
	Stock       int
	Unit        string
	Description string
	Tagline     string
	PackSize    string
	Images      []string
	CategoryID  *uuid.UUID
	BulkPricing []models.BulkTier
	TaxFields   []string
}

// UpdateProductInput carries partial product edits. Nil means untouched.
type UpdateProductInput struct {
	Name        *string
	SKU         *string
	Price       *float64
	MRP         *float64
	Stock       *int
	Unit        *string
	Description *string
	Tagline     *string
	PackSize    *string
	Images      *[]string
	CategoryID  *uuid.UUID
	BulkPricing *[]models.BulkTier
	TaxFields   *[]string
}

// MoveDirection shifts a category one slot in the display ordering.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// CreateBannerInput holds the payload for a storefront banner.
type CreateBannerInput struct {
	Title        string
	ImageURL     string
	Link         string
	DisplayOrder int
	IsActive     bool
}
