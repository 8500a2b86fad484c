package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/internal/addresses"
	"github.com/bafnatoys/bafnatoys-backend/internal/authn"
	"github.com/bafnatoys/bafnatoys-backend/internal/catalog"
	"github.com/bafnatoys/bafnatoys-backend/internal/orders"
	"github.com/bafnatoys/bafnatoys-backend/internal/otp"
	"github.com/bafnatoys/bafnatoys-backend/internal/payments"
	"github.com/bafnatoys/bafnatoys-backend/internal/registrations"
	"github.com/bafnatoys/bafnatoys-backend/internal/settings"
	"github.com/bafnatoys/bafnatoys-backend/internal/shipping"
	pkgauth "github.com/bafnatoys/bafnatoys-backend/pkg/auth"
	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSender struct{}

func (stubSender) Send(context.Context, string, string) error { return nil }

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "router-test-secret",
		Issuer:          "bafnatoys-test",
		CustomerTTLDays: 30,
		AdminTTLMinutes: 60,
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Admin{},
		&models.Registration{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.Banner{},
		&models.Order{},
		&models.OrderItem{},
		&models.Setting{},
		&models.ShippingSetting{},
	))

	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
	tx := gormTxRunner{db: conn}

	otpService, err := otp.NewService(otp.NewMemoryStore(), stubSender{}, config.OTPConfig{
		TTL:            5 * time.Minute,
		ResendCooldown: 30 * time.Second,
		MaxAttempts:    5,
	}, logg, nil)
	require.NoError(t, err)

	registrationService, err := registrations.NewService(registrations.NewRepository(conn), config.PasswordConfig{})
	require.NoError(t, err)

	authnService, err := authn.NewService(otpService, registrationService, authn.NewAdminRepository(conn), testJWTConfig())
	require.NoError(t, err)

	productService, err := catalog.NewProductService(catalog.NewProductRepository(conn), tx)
	require.NoError(t, err)
	categoryService, err := catalog.NewCategoryService(catalog.NewCategoryRepository(conn), tx)
	require.NoError(t, err)
	bannerService, err := catalog.NewBannerService(catalog.NewBannerRepository(conn))
	require.NoError(t, err)

	addressService, err := addresses.NewService(addresses.NewRepository(conn), tx)
	require.NoError(t, err)
	settingsService, err := settings.NewService(settings.NewRepository(conn))
	require.NoError(t, err)
	orderService, err := orders.NewService(orders.NewRepository(conn), tx, settingsService, nil)
	require.NoError(t, err)

	shippingClient, err := shipping.NewClient(config.ShippingConfig{AccessToken: "token", SecretKey: "secret"})
	require.NoError(t, err)
	shippingService, err := shipping.NewService(shippingClient, orderService, logg)
	require.NoError(t, err)

	paymentsClient, err := payments.NewClient(config.PaymentsConfig{KeyID: "key", Secret: "secret"})
	require.NoError(t, err)

	cfg := &config.Config{JWT: testJWTConfig()}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.RateLimit = config.RateLimitConfig{OTPWindow: time.Minute, OTPIPLimit: 20, OTPPhoneLimit: 5}

	return NewRouter(Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            stubPinger{},
		Registry:      prometheus.NewRegistry(),
		OTP:           otpService,
		Authn:         authnService,
		Registrations: registrationService,
		Products:      productService,
		Categories:    categoryService,
		Banners:       bannerService,
		Addresses:     addressService,
		Orders:        orderService,
		Shipping:      shippingService,
		Payments:      paymentsClient,
		Settings:      settingsService,
	})
}

func mintToken(t *testing.T, role pkgauth.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		SubjectID: uuid.New(),
		Role:      role,
		Phone:     "9876543210",
	})
	require.NoError(t, err)
	return token
}

func TestRouterPublicSurface(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/products", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/banners", http.StatusOK},
		{http.MethodGet, "/api/settings/shipping", http.StatusOK},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/addresses"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/registrations"},
		{http.MethodPost, "/api/shipping/book"},
	}

	for _, tc := range protected {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterAdminGate(t *testing.T) {
	router := newTestRouter(t)

	customerToken := mintToken(t, pkgauth.RoleCustomer)
	adminToken := mintToken(t, pkgauth.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/registrations", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/registrations", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Customers can reach their own surface with the same token.
	req = httptest.NewRequest(http.MethodGet, "/api/addresses", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
