package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	"github.com/bafnatoys/bafnatoys-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their stock
// side effects.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	ListPage(ctx context.Context, filters ListFilters, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	ClaimDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) (bool, error)
	AttachShipment(ctx context.Context, id uuid.UUID, shipment ShipmentInput) error
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShippingRateSource supplies the current flat-rate shipping configuration.
type ShippingRateSource interface {
	CurrentShippingSetting(ctx context.Context) (*models.ShippingSetting, error)
}
