package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Banner{},
	))
	return conn
}

func newProductService(t *testing.T, conn *gorm.DB) ProductService {
	t.Helper()
	svc, err := NewProductService(NewProductRepository(conn), gormTxRunner{db: conn})
	require.NoError(t, err)
	return svc
}

func TestProductServiceCreate(t *testing.T) {
	t.Run("slugs the name and appends display order per category", func(t *testing.T) {
		conn := newTestDB(t)
		svc := newProductService(t, conn)
		category := &models.Category{ID: uuid.New(), Name: "Soft Toys"}
		require.NoError(t, conn.Create(category).Error)

		first, err := svc.Create(context.Background(), CreateProductInput{
			Name:       "Plush Teddy Bear 30cm",
			SKU:        "PTB-30",
			Price:      180,
			MRP:        299,
			Stock:      40,
			CategoryID: &category.ID,
			BulkPricing: []models.BulkTier{
				{Inner: "12 pcs", MinQty: 12, InnerPrice: 160},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "plush-teddy-bear-30cm", first.Slug)
		assert.Equal(t, 1, first.DisplayOrder)
		require.NotNil(t, first.Category)
		assert.Equal(t, "Soft Toys", first.Category.Name)

		second, err := svc.Create(context.Background(), CreateProductInput{
			Name:       "Plush Elephant",
			SKU:        "PEL-01",
			CategoryID: &category.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, second.DisplayOrder)

		// A different (nil) category starts its own ordering.
		uncategorized, err := svc.Create(context.Background(), CreateProductInput{
			Name: "Mystery Box",
			SKU:  "MYS-01",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, uncategorized.DisplayOrder)
	})

	t.Run("duplicate sku conflicts", func(t *testing.T) {
		conn := newTestDB(t)
		svc := newProductService(t, conn)

		_, err := svc.Create(context.Background(), CreateProductInput{Name: "Toy Car", SKU: "CAR-01"})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), CreateProductInput{Name: "Toy Truck", SKU: "CAR-01"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	})

	t.Run("validation failures", func(t *testing.T) {
		conn := newTestDB(t)
		svc := newProductService(t, conn)

		_, err := svc.Create(context.Background(), CreateProductInput{SKU: "X-1"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		_, err = svc.Create(context.Background(), CreateProductInput{Name: "X"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		_, err = svc.Create(context.Background(), CreateProductInput{
			Name: "X", SKU: "X-1",
			BulkPricing: []models.BulkTier{{MinQty: 0, InnerPrice: 10}},
		})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})
}

func TestProductServiceUpdate(t *testing.T) {
	conn := newTestDB(t)
	svc := newProductService(t, conn)

	created, err := svc.Create(context.Background(), CreateProductInput{Name: "Wind-Up Robot", SKU: "ROB-01", Price: 99})
	require.NoError(t, err)

	newName := "Wind-Up Robot Deluxe"
	newStock := 75
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		Name:  &newName,
		Stock: &newStock,
	})
	require.NoError(t, err)
	assert.Equal(t, "wind-up-robot-deluxe", updated.Slug, "rename refreshes the slug")
	assert.Equal(t, 75, updated.Stock)
	assert.Equal(t, 99.0, updated.Price, "untouched fields survive")

	_, err = svc.Update(context.Background(), uuid.New(), UpdateProductInput{Stock: &newStock})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestProductServiceReorder(t *testing.T) {
	conn := newTestDB(t)
	svc := newProductService(t, conn)

	a, err := svc.Create(context.Background(), CreateProductInput{Name: "A", SKU: "A-1"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), CreateProductInput{Name: "B", SKU: "B-1"})
	require.NoError(t, err)
	c, err := svc.Create(context.Background(), CreateProductInput{Name: "C", SKU: "C-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(context.Background(), []uuid.UUID{c.ID, a.ID, b.ID}))

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "C", listed[0].Name)
	assert.Equal(t, "A", listed[1].Name)
	assert.Equal(t, "B", listed[2].Name)

	err = svc.Reorder(context.Background(), []uuid.UUID{a.ID, a.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestProductServiceDelete(t *testing.T) {
	conn := newTestDB(t)
	svc := newProductService(t, conn)

	created, err := svc.Create(context.Background(), CreateProductInput{Name: "Kite", SKU: "KITE-01"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
