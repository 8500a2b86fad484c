package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type stubRateSource struct {
	setting *models.ShippingSetting
	err     error
}

func (s stubRateSource) CurrentShippingSetting(context.Context) (*models.ShippingSetting, error) {
	return s.setting, s.err
}

// collidingRepo forces a configurable number of order-number collisions
// before delegating to the real repository.
type collidingRepo struct {
	Repository
	failures *int
}

func (c collidingRepo) WithTx(tx *gorm.DB) Repository {
	return collidingRepo{Repository: c.Repository.WithTx(tx), failures: c.failures}
}

func (c collidingRepo) Create(ctx context.Context, order *models.Order) error {
	if *c.failures > 0 {
		*c.failures--
		return errors.New(`UNIQUE constraint failed: orders.order_number`)
	}
	return c.Repository.Create(ctx, order)
}

func defaultRates() stubRateSource {
	return stubRateSource{setting: &models.ShippingSetting{
		ShippingCharge:        250,
		FreeShippingThreshold: 5000,
	}}
}

func newTestService(t *testing.T, conn *gorm.DB, repo Repository, rates ShippingRateSource) Service {
	t.Helper()
	svc, err := NewService(repo, gormTxRunner{db: conn}, rates, nil)
	require.NoError(t, err)
	return svc
}

func validInput(customerID uuid.UUID, productID *uuid.UUID) CreateInput {
	return CreateInput{
		CustomerID: customerID,
		Items: []LineItemInput{
			{ProductID: productID, Name: "Friction Race Car", Qty: 7, Price: 10},
			{ProductID: productID, Name: "Stacking Rings", Qty: 3, Price: 20, PiecesPerInner: 2},
		},
		PaymentMode: "COD",
		AdvancePaid: 50,
		Shipping: ShippingInput{
			FullName: "Rakesh Sharma",
			Phone:    "9876543210",
			City:     "Coimbatore",
			Pincode:  "641007",
		},
	}
}

func TestServiceCreate(t *testing.T) {
	t.Run("computes prices server side", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		product := seedProduct(t, conn, 100)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), validInput(customer.ID, &product.ID))
		require.NoError(t, err)

		// 7×10 + 3×20 = 130, below the free threshold so flat shipping applies.
		assert.Equal(t, 130.0, order.ItemsPrice)
		assert.Equal(t, 250.0, order.ShippingPrice)
		assert.Equal(t, 380.0, order.Total)
		assert.Equal(t, 50.0, order.AdvancePaid)
		assert.Equal(t, 330.0, order.RemainingAmount)
		assert.Equal(t, enums.OrderStatusPending, order.Status)
		assert.Regexp(t, `^ODR\d{6}$`, order.OrderNumber)
		require.NotNil(t, order.Customer)
		assert.Equal(t, "Sharma Toy House", order.Customer.FirmName)

		require.Len(t, order.Items, 2)
		assert.Equal(t, 0, order.Items[0].Inners)
		assert.Equal(t, 2, order.Items[1].Inners, "ceil(3/2)")
	})

	t.Run("free shipping above threshold", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), CreateInput{
			CustomerID: customer.ID,
			Items:      []LineItemInput{{Name: "Bulk Carton", Qty: 100, Price: 60}},
		})
		require.NoError(t, err)
		assert.Equal(t, 6000.0, order.ItemsPrice)
		assert.Zero(t, order.ShippingPrice)
		assert.Equal(t, 6000.0, order.Total)
	})

	t.Run("advance exceeding total leaves zero remaining", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), CreateInput{
			CustomerID:  customer.ID,
			Items:       []LineItemInput{{Name: "Spinning Top", Qty: 1, Price: 20}},
			AdvancePaid: 10000,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, order.RemainingAmount)
	})

	t.Run("empty payment mode defaults to COD", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), CreateInput{
			CustomerID: customer.ID,
			Items:      []LineItemInput{{Name: "Spinning Top", Qty: 1, Price: 20}},
		})
		require.NoError(t, err)
		assert.Equal(t, enums.PaymentModeCOD, order.PaymentMode)
	})

	t.Run("validation failures", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		cases := []struct {
			name  string
			input CreateInput
		}{
			{"missing customer", CreateInput{Items: []LineItemInput{{Name: "X", Qty: 1, Price: 1}}}},
			{"no items", CreateInput{CustomerID: customer.ID}},
			{"zero qty", CreateInput{CustomerID: customer.ID, Items: []LineItemInput{{Name: "X", Qty: 0, Price: 1}}}},
			{"negative price", CreateInput{CustomerID: customer.ID, Items: []LineItemInput{{Name: "X", Qty: 1, Price: -1}}}},
			{"bad payment mode", CreateInput{CustomerID: customer.ID, Items: []LineItemInput{{Name: "X", Qty: 1, Price: 1}}, PaymentMode: "UPI"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Create(context.Background(), tc.input)
				require.Error(t, err)
				assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
			})
		}
	})

	t.Run("retries through order number collisions", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		failures := 4
		repo := collidingRepo{Repository: NewRepository(conn), failures: &failures}
		svc := newTestService(t, conn, repo, defaultRates())

		order, err := svc.Create(context.Background(), validInput(customer.ID, nil))
		require.NoError(t, err)
		assert.Regexp(t, `^ODR\d{6}$`, order.OrderNumber)
		assert.Zero(t, failures)
	})

	t.Run("gives up after five collisions", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		failures := 5
		repo := collidingRepo{Repository: NewRepository(conn), failures: &failures}
		svc := newTestService(t, conn, repo, defaultRates())

		_, err := svc.Create(context.Background(), validInput(customer.ID, nil))
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.As(err).Code())

		// No partial order rows survive the exhausted retries.
		var count int64
		require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("surfaces rate source failure", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		svc := newTestService(t, conn, NewRepository(conn), stubRateSource{err: errors.New("settings down")})

		_, err := svc.Create(context.Background(), validInput(customer.ID, nil))
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	})
}

func TestServiceUpdateStatus(t *testing.T) {
	t.Run("plain transition does not touch stock", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		product := seedProduct(t, conn, 100)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), validInput(customer.ID, &product.ID))
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(context.Background(), order.ID, "processing")
		require.NoError(t, err)
		assert.Equal(t, enums.OrderStatusProcessing, updated.Status)

		var reloaded models.Product
		require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
		assert.Equal(t, 100, reloaded.Stock)
	})

	t.Run("delivered decrements stock exactly once", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		product := seedProduct(t, conn, 100)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), validInput(customer.ID, &product.ID))
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(context.Background(), order.ID, "delivered")
		require.NoError(t, err)
		assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
		assert.True(t, updated.IsDelivered)
		require.NotNil(t, updated.DeliveredAt)

		var reloaded models.Product
		require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
		assert.Equal(t, 90, reloaded.Stock, "7+3 pieces across both lines")

		// Re-delivering is a no-op for stock.
		_, err = svc.UpdateStatus(context.Background(), order.ID, "delivered")
		require.NoError(t, err)
		require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
		assert.Equal(t, 90, reloaded.Stock)
	})

	t.Run("direct jump from pending to delivered is allowed", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		product := seedProduct(t, conn, 20)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), CreateInput{
			CustomerID: customer.ID,
			Items:      []LineItemInput{{ProductID: &product.ID, Name: "Spinning Top", Qty: 5, Price: 15}},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(context.Background(), order.ID, "delivered")
		require.NoError(t, err)
		assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
	})

	t.Run("cancel does not restock", func(t *testing.T) {
		conn := newTestDB(t)
		customer := seedCustomer(t, conn)
		product := seedProduct(t, conn, 100)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		order, err := svc.Create(context.Background(), validInput(customer.ID, &product.ID))
		require.NoError(t, err)

		_, err = svc.UpdateStatus(context.Background(), order.ID, "delivered")
		require.NoError(t, err)
		_, err = svc.UpdateStatus(context.Background(), order.ID, "cancelled")
		require.NoError(t, err)

		var reloaded models.Product
		require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
		assert.Equal(t, 90, reloaded.Stock)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		conn := newTestDB(t)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		_, err := svc.UpdateStatus(context.Background(), uuid.New(), "returned")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("unknown order yields not found", func(t *testing.T) {
		conn := newTestDB(t)
		svc := newTestService(t, conn, NewRepository(conn), defaultRates())

		_, err := svc.UpdateStatus(context.Background(), uuid.New(), "delivered")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	})
}

func TestServiceAttachShipment(t *testing.T) {
	conn := newTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newTestService(t, conn, NewRepository(conn), defaultRates())

	order, err := svc.Create(context.Background(), validInput(customer.ID, nil))
	require.NoError(t, err)

	updated, err := svc.AttachShipment(context.Background(), order.ID, ShipmentInput{
		CourierName: "iThink Logistics",
		TrackingID:  "AWB123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.True(t, updated.IsShipped)
	assert.Equal(t, "AWB123456789", updated.TrackingID)

	_, err = svc.AttachShipment(context.Background(), order.ID, ShipmentInput{CourierName: "X"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceDelete(t *testing.T) {
	conn := newTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newTestService(t, conn, NewRepository(conn), defaultRates())

	order, err := svc.Create(context.Background(), validInput(customer.ID, nil))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))

	_, err = svc.Get(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListPage(t *testing.T) {
	conn := newTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newTestService(t, conn, NewRepository(conn), defaultRates())

	created := make([]*models.Order, 0, 3)
	for i := 0; i < 3; i++ {
		order, err := svc.Create(context.Background(), validInput(customer.ID, nil))
		require.NoError(t, err)
		// Spread created_at so the page ordering is deterministic.
		ts := time.Date(2026, 1, 1, 12, i, 0, 0, time.UTC)
		require.NoError(t, conn.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("created_at", ts).Error)
		created = append(created, order)
	}

	first, cursor, err := svc.ListPage(context.Background(), ListFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, created[2].ID, first[0].ID)
	assert.Equal(t, created[1].ID, first[1].ID)

	second, next, err := svc.ListPage(context.Background(), ListFilters{}, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, next)
	assert.Equal(t, created[0].ID, second[0].ID)

	_, _, err = svc.ListPage(context.Background(), ListFilters{}, pagination.Params{Cursor: "not-base64!"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPricingHelpers(t *testing.T) {
	assert.Equal(t, 0, innersFor(10, 0))
	assert.Equal(t, 1, innersFor(2, 2))
	assert.Equal(t, 4, innersFor(7, 2))
	assert.Equal(t, 0.0, remainingFor(100, 150))
	assert.Equal(t, 70.0, remainingFor(100, 30))
	assert.Equal(t, 0.0, shippingPriceFor(nil, 100))
}
