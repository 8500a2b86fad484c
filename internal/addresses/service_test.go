package addresses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:addresses_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Address{}))

	svc, err := NewService(NewRepository(conn), gormTxRunner{db: conn})
	require.NoError(t, err)
	return svc
}

func validInput() Input {
	return Input{
		FullName: "Rakesh Sharma",
		Phone:    "+91 98765 43210",
		Line1:    "14 Gandhi Road",
		City:     "Coimbatore",
		State:    "Tamil Nadu",
		Zip:      "641001",
	}
}

func TestServiceCreate(t *testing.T) {
	t.Run("defaults label to home and normalizes phone", func(t *testing.T) {
		svc := newTestService(t)
		customerID := uuid.New()

		created, err := svc.Create(context.Background(), customerID, validInput())
		require.NoError(t, err)
		assert.Equal(t, enums.AddressLabelHome, created.Label)
		assert.Equal(t, "9876543210", created.Phone)
		assert.False(t, created.IsDefault)
	})

	t.Run("new default displaces the previous one", func(t *testing.T) {
		svc := newTestService(t)
		customerID := uuid.New()

		first := validInput()
		first.IsDefault = true
		created, err := svc.Create(context.Background(), customerID, first)
		require.NoError(t, err)

		second := validInput()
		second.Line1 = "2nd Cross Street"
		second.IsDefault = true
		_, err = svc.Create(context.Background(), customerID, second)
		require.NoError(t, err)

		listed, err := svc.List(context.Background(), customerID)
		require.NoError(t, err)
		require.Len(t, listed, 2)

		defaults := 0
		for _, addr := range listed {
			if addr.IsDefault {
				defaults++
				assert.NotEqual(t, created.ID, addr.ID)
			}
		}
		assert.Equal(t, 1, defaults)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := newTestService(t)
		customerID := uuid.New()

		input := validInput()
		input.City = ""
		_, err := svc.Create(context.Background(), customerID, input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		input = validInput()
		input.Label = "Warehouse"
		_, err = svc.Create(context.Background(), customerID, input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		_, err = svc.Create(context.Background(), uuid.Nil, validInput())
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	})
}

func TestServiceUpdateIsCustomerScoped(t *testing.T) {
	svc := newTestService(t)
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)

	changed := validInput()
	changed.Line1 = "Updated Street"
	updated, err := svc.Update(context.Background(), owner, created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, "Updated Street", updated.Line1)

	_, err = svc.Update(context.Background(), intruder, created.ID, changed)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceDeleteIsCustomerScoped(t *testing.T) {
	svc := newTestService(t)
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), intruder, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, svc.Delete(context.Background(), owner, created.ID))

	listed, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
