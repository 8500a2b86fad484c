package registrations

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:registrations_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Registration{}))

	svc, err := NewService(NewRepository(conn), config.PasswordConfig{})
	require.NoError(t, err)
	return svc
}

func validInput() CreateInput {
	return CreateInput{
		FirmName:  "Bafna Brothers",
		ShopName:  "Toy Junction",
		State:     "Tamil Nadu",
		City:      "Coimbatore",
		Zip:       "641001",
		OTPMobile: "+91 98765 43210",
		Whatsapp:  "919876543211",
	}
}

func TestServiceCreate(t *testing.T) {
	t.Run("normalizes phones and starts pending", func(t *testing.T) {
		svc := newTestService(t)

		created, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		assert.Equal(t, "9876543210", created.OTPMobile)
		assert.Equal(t, "9876543211", created.Whatsapp)
		assert.Nil(t, created.IsApproved, "new registrations await review")
		assert.Empty(t, created.PasswordHash)
	})

	t.Run("hashes password when provided", func(t *testing.T) {
		svc := newTestService(t)

		input := validInput()
		input.Password = "s3cret-pass"
		created, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(created.PasswordHash, "$argon2id$"))
	})

	t.Run("duplicate mobile conflicts", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		dup := validInput()
		dup.OTPMobile = "919876543210"
		_, err = svc.Create(context.Background(), dup)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc := newTestService(t)

		input := validInput()
		input.ShopName = "  "
		_, err := svc.Create(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		input = validInput()
		input.OTPMobile = "1234"
		_, err = svc.Create(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})
}

func TestServiceGetByPhone(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// Lookup tolerates country-code prefixes.
	found, err := svc.GetByPhone(context.Background(), "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByPhone(context.Background(), "9000000000")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceUpdate(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	newShop := "Toy Palace"
	newMobile := "91 91234 56789"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{
		ShopName:  &newShop,
		OTPMobile: &newMobile,
	})
	require.NoError(t, err)
	assert.Equal(t, "Toy Palace", updated.ShopName)
	assert.Equal(t, "9123456789", updated.OTPMobile)
	assert.Equal(t, "Bafna Brothers", updated.FirmName, "untouched fields survive")

	_, err = svc.Update(context.Background(), uuid.New(), UpdateInput{ShopName: &newShop})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceApproval(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SetApproval(context.Background(), created.ID, true))
	approved, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, approved.IsApproved)
	assert.True(t, *approved.IsApproved)

	require.NoError(t, svc.SetApproval(context.Background(), created.ID, false))
	rejected, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, rejected.IsApproved)
	assert.False(t, *rejected.IsApproved)
}

func TestServiceDelete(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
