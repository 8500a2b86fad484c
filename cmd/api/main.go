package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bafnatoys/bafnatoys-backend/api/routes"
	"github.com/bafnatoys/bafnatoys-backend/internal/addresses"
	"github.com/bafnatoys/bafnatoys-backend/internal/authn"
	"github.com/bafnatoys/bafnatoys-backend/internal/catalog"
	"github.com/bafnatoys/bafnatoys-backend/internal/orders"
	"github.com/bafnatoys/bafnatoys-backend/internal/otp"
	"github.com/bafnatoys/bafnatoys-backend/internal/payments"
	"github.com/bafnatoys/bafnatoys-backend/internal/registrations"
	"github.com/bafnatoys/bafnatoys-backend/internal/settings"
	"github.com/bafnatoys/bafnatoys-backend/internal/shipping"
	"github.com/bafnatoys/bafnatoys-backend/internal/sms"
	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
	"github.com/bafnatoys/bafnatoys-backend/pkg/metrics"
	pkgredis "github.com/bafnatoys/bafnatoys-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(
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
		); err != nil {
			logg.Error(context.Background(), "failed to run schema migration", err)
			os.Exit(1)
		}
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, using in-process OTP store")
	}

	registry := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(registry)

	smsClient, err := sms.NewClient(cfg.SMS)
	if err != nil {
		logg.Error(context.Background(), "failed to create sms client", err)
		os.Exit(1)
	}

	var otpStore otp.ChallengeStore
	if redisClient != nil {
		otpStore = otp.NewRedisStore(redisClient)
	} else {
		otpStore = otp.NewMemoryStore()
	}
	otpService, err := otp.NewService(otpStore, smsClient, cfg.OTP, logg, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create otp service", err)
		os.Exit(1)
	}

	conn := dbClient.DB()

	registrationService, err := registrations.NewService(registrations.NewRepository(conn), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create registration service", err)
		os.Exit(1)
	}

	authnService, err := authn.NewService(otpService, registrationService, authn.NewAdminRepository(conn), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := catalog.NewProductService(catalog.NewProductRepository(conn), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	categoryService, err := catalog.NewCategoryService(catalog.NewCategoryRepository(conn), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	bannerService, err := catalog.NewBannerService(catalog.NewBannerRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create banner service", err)
		os.Exit(1)
	}

	addressService, err := addresses.NewService(addresses.NewRepository(conn), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(conn), dbClient, settingsService, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	shippingClient, err := shipping.NewClient(cfg.Shipping)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping client", err)
		os.Exit(1)
	}
	shippingService, err := shipping.NewService(shippingClient, orderService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	paymentsClient, err := payments.NewClient(cfg.Payments)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments client", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Registry:      registry,
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
