package settings

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

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:settings_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Setting{}, &models.ShippingSetting{}))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestSettingRoundTrip(t *testing.T) {
	svc := newTestService(t)

	// The cod setting self-seeds on first read.
	data, err := svc.Get(context.Background(), "cod")
	require.NoError(t, err)
	assert.Equal(t, float64(0), data["advanceAmount"])

	saved, err := svc.Put(context.Background(), "cod", map[string]any{"advanceAmount": float64(500)})
	require.NoError(t, err)
	assert.Equal(t, float64(500), saved["advanceAmount"])

	reloaded, err := svc.Get(context.Background(), "cod")
	require.NoError(t, err)
	assert.Equal(t, float64(500), reloaded["advanceAmount"])
}

func TestSettingUnknownKey(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "whatsapp")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Get(context.Background(), " ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// A write creates the key, after which reads succeed.
	_, err = svc.Put(context.Background(), "whatsapp", map[string]any{"number": "9876543210"})
	require.NoError(t, err)
	data, err := svc.Get(context.Background(), "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", data["number"])
}

func TestShippingSettingDefaultsAndUpdate(t *testing.T) {
	svc := newTestService(t)

	setting, err := svc.CurrentShippingSetting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250.0, setting.ShippingCharge)
	assert.Equal(t, 5000.0, setting.FreeShippingThreshold)

	updated, err := svc.UpdateShippingSetting(context.Background(), 199, 3000)
	require.NoError(t, err)
	assert.Equal(t, 199.0, updated.ShippingCharge)

	reloaded, err := svc.CurrentShippingSetting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 199.0, reloaded.ShippingCharge)
	assert.Equal(t, 3000.0, reloaded.FreeShippingThreshold)

	_, err = svc.UpdateShippingSetting(context.Background(), -1, 3000)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
