package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/internal/orders"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// Booker books a consignment and returns the waybill.
type Booker interface {
	BookOrder(ctx context.Context, order *models.Order, now time.Time) (string, error)
}

type orderGateway interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	AttachShipment(ctx context.Context, id uuid.UUID, shipment orders.ShipmentInput) (*models.Order, error)
}

// Service books carrier consignments for orders and records the waybill.
type Service struct {
	booker Booker
	orders orderGateway
	log    *logger.Logger
	now    func() time.Time
}

// NewService wires the carrier client against the order store. Any
// orders.Service satisfies the gateway.
func NewService(booker Booker, orderSvc orderGateway, log *logger.Logger) (*Service, error) {
	if booker == nil {
		return nil, fmt.Errorf("shipping: booker required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("shipping: orders service required")
	}
	if log == nil {
		return nil, fmt.Errorf("shipping: logger required")
	}
	return &Service{
		booker: booker,
		orders: orderSvc,
		log:    log,
		now:    time.Now,
	}, nil
}

// Book registers the order with the carrier, then marks it shipped with the
// returned waybill. Already-shipped orders are refused so a retried request
// cannot double-book a consignment.
func (s *Service) Book(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsShipped {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already shipped")
	}

	waybill, err := s.booker.BookOrder(ctx, order, s.now())
	if err != nil {
		s.log.Error(s.log.WithOrderNumber(ctx, order.OrderNumber), "carrier booking failed", err)
		return nil, err
	}

	updated, err := s.orders.AttachShipment(ctx, orderID, orders.ShipmentInput{
		CourierName: CourierName,
		TrackingID:  waybill,
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.log.WithFields(ctx, map[string]any{
		"order_number": updated.OrderNumber,
		"waybill":      waybill,
	})
	s.log.Info(logCtx, "consignment booked")
	return updated, nil
}
