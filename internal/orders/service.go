package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/metrics"
	"github.com/bafnatoys/bafnatoys-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	ListPage(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*models.Order, error)
	AttachShipment(ctx context.Context, id uuid.UUID, shipment ShipmentInput) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	tx      txRunner
	rates   ShippingRateSource
	metrics *metrics.APIMetrics
	now     func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, rates ShippingRateSource, apiMetrics *metrics.APIMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if rates == nil {
		return nil, fmt.Errorf("shipping rate source required")
	}
	if apiMetrics == nil {
		apiMetrics = metrics.NewAPIMetrics(nil)
	}
	return &service{
		repo:    repo,
		tx:      tx,
		rates:   rates,
		metrics: apiMetrics,
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}
	if input.AdvancePaid < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance cannot be negative")
	}
	mode, err := enums.ParsePaymentMode(input.PaymentMode)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment mode must be COD or ONLINE")
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if strings.TrimSpace(in.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item name required")
		}
		if in.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item qty must be positive")
		}
		if in.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item price cannot be negative")
		}
		items = append(items, models.OrderItem{
			ProductID:      in.ProductID,
			Name:           in.Name,
			Image:          in.Image,
			Qty:            in.Qty,
			Price:          in.Price,
			PiecesPerInner: in.PiecesPerInner,
			Inners:         innersFor(in.Qty, in.PiecesPerInner),
		})
	}

	itemsPrice := itemsPriceFor(items)
	setting, err := s.rates.CurrentShippingSetting(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping rates")
	}
	shippingPrice := shippingPriceFor(setting, itemsPrice)
	total := itemsPrice + shippingPrice

	advance := 0.0
	if mode == enums.PaymentModeCOD {
		advance = input.AdvancePaid
	}

	order := &models.Order{
		CustomerID:      input.CustomerID,
		Items:           items,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		Total:           total,
		PaymentMode:     mode,
		AdvancePaid:     advance,
		RemainingAmount: remainingFor(total, advance),
		Status:          enums.OrderStatusPending,
		Shipping:        input.Shipping.snapshot(),
	}

	var created bool
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		order.OrderNumber = newOrderNumber()
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).Create(ctx, order)
		})
		if err == nil {
			created = true
			break
		}
		if db.IsUniqueViolation(err, "order_number") {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	if !created {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not create order, retries exhausted")
	}

	s.metrics.IncOrderCreated()
	return s.get(ctx, order.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.get(ctx, id)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// ListPage returns one page of orders plus the cursor for the next page, or
// an empty cursor when the listing is exhausted.
func (s *service) ListPage(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListPage(ctx, filters, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// UpdateStatus moves the order to any legal status. Entering delivered
// decrements each line item's product stock, guarded so the side effect
// fires at most once per order no matter how many updates race.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	status, err := enums.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	if status != enums.OrderStatusDelivered {
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		s.metrics.IncStatusChange(status.String())
		return s.get(ctx, id)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		claimed, err := repo.ClaimDelivered(ctx, order.ID, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order delivered")
		}
		if !claimed {
			// Already delivered; stock was decremented on the first claim.
			return nil
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if err := repo.DecrementStock(ctx, *item.ProductID, item.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement product stock")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusChange(status.String())
	return s.get(ctx, id)
}

func (s *service) AttachShipment(ctx context.Context, id uuid.UUID, shipment ShipmentInput) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if strings.TrimSpace(shipment.TrackingID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking id required")
	}
	if err := s.repo.AttachShipment(ctx, id, shipment); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach shipment")
	}
	s.metrics.IncStatusChange(enums.OrderStatusShipped.String())
	return s.get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
