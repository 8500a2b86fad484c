package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bafnatoys/bafnatoys-backend/api/controllers"
	"github.com/bafnatoys/bafnatoys-backend/api/middleware"
	"github.com/bafnatoys/bafnatoys-backend/internal/addresses"
	"github.com/bafnatoys/bafnatoys-backend/internal/authn"
	"github.com/bafnatoys/bafnatoys-backend/internal/catalog"
	"github.com/bafnatoys/bafnatoys-backend/internal/orders"
	"github.com/bafnatoys/bafnatoys-backend/internal/otp"
	"github.com/bafnatoys/bafnatoys-backend/internal/payments"
	"github.com/bafnatoys/bafnatoys-backend/internal/registrations"
	"github.com/bafnatoys/bafnatoys-backend/internal/settings"
	"github.com/bafnatoys/bafnatoys-backend/internal/shipping"
	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
	"github.com/bafnatoys/bafnatoys-backend/pkg/metrics"
	pkgredis "github.com/bafnatoys/bafnatoys-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *pkgredis.Client
	Registry      *prometheus.Registry
	OTP           *otp.Service
	Authn         *authn.Service
	Registrations registrations.Service
	Products      catalog.ProductService
	Categories    catalog.CategoryService
	Banners       catalog.BannerService
	Addresses     addresses.Service
	Orders        orders.Service
	Shipping      *shipping.Service
	Payments      *payments.Client
	Settings      settings.Service
}

// NewRouter wires the full route tree: public storefront reads, OTP login,
// customer-scoped resources, and the admin surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	otpLimit := otpLimiter(middleware.NewOTPRateLimitPolicy(
		cfg.RateLimit.OTPWindow,
		cfg.RateLimit.OTPIPLimit,
		cfg.RateLimit.OTPPhoneLimit,
	), d.Redis, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(d.DB, readyCache(d.Redis), logg))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))

	r.Route("/api", func(r chi.Router) {
		r.Route("/otp", func(r chi.Router) {
			r.Use(otpLimit)
			r.Post("/send", controllers.OTPSend(d.OTP, logg))
			r.Post("/verify", controllers.OTPVerify(d.OTP, logg))
		})

		r.With(otpLimit).Post("/auth/login", controllers.AuthLogin(d.Authn, logg))
		r.Post("/admin/auth/login", controllers.AdminAuthLogin(d.Authn, logg))

		// Public storefront reads and self-service registration.
		r.Post("/registrations", controllers.RegistrationCreate(d.Registrations, logg))
		r.Get("/products", controllers.ProductList(d.Products, logg))
		r.Get("/products/{id}", controllers.ProductGet(d.Products, logg))
		r.Get("/categories", controllers.CategoryList(d.Categories, logg))
		r.Get("/banners", controllers.BannerList(d.Banners, logg))
		r.Get("/settings/shipping", controllers.ShippingSettingGet(d.Settings, logg))
		r.Get("/settings/{key}", controllers.SettingGet(d.Settings, logg))

		// Payment gateway endpoints are driven by the checkout page.
		r.Post("/payments/order", controllers.PaymentOrderCreate(d.Payments, logg))
		r.Post("/payments/verify", controllers.PaymentVerify(d.Payments, logg))

		// Signed-in customers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/addresses", controllers.AddressList(d.Addresses, logg))
			r.Post("/addresses", controllers.AddressCreate(d.Addresses, logg))
			r.Put("/addresses/{id}", controllers.AddressUpdate(d.Addresses, logg))
			r.Delete("/addresses/{id}", controllers.AddressDelete(d.Addresses, logg))

			r.Post("/orders", controllers.OrderCreate(d.Orders, logg))
			r.Get("/orders", controllers.OrderList(d.Orders, logg))
			r.Get("/orders/{id}", controllers.OrderGet(d.Orders, logg))
		})

		// Admin surface. Patterns share nodes with the public reads above, so
		// everything registers as explicit method routes rather than mounts.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))

			r.Get("/registrations", controllers.RegistrationList(d.Registrations, logg))
			r.Get("/registrations/phone/{phone}", controllers.RegistrationGetByPhone(d.Registrations, logg))
			r.Put("/registrations/{id}", controllers.RegistrationUpdate(d.Registrations, logg))
			r.Post("/registrations/{id}/approve", controllers.RegistrationSetApproval(d.Registrations, logg, true))
			r.Post("/registrations/{id}/reject", controllers.RegistrationSetApproval(d.Registrations, logg, false))
			r.Delete("/registrations/{id}", controllers.RegistrationDelete(d.Registrations, logg))

			r.Post("/products", controllers.ProductCreate(d.Products, logg))
			r.Post("/products/reorder", controllers.ProductReorder(d.Products, logg))
			r.Put("/products/{id}", controllers.ProductUpdate(d.Products, logg))
			r.Delete("/products/{id}", controllers.ProductDelete(d.Products, logg))

			r.Post("/categories", controllers.CategoryCreate(d.Categories, logg))
			r.Put("/categories/{id}", controllers.CategoryRename(d.Categories, logg))
			r.Post("/categories/{id}/move", controllers.CategoryMove(d.Categories, logg))
			r.Delete("/categories/{id}", controllers.CategoryDelete(d.Categories, logg))

			r.Post("/banners", controllers.BannerCreate(d.Banners, logg))
			r.Delete("/banners/{id}", controllers.BannerDelete(d.Banners, logg))

			r.Patch("/orders/{id}/status", controllers.OrderUpdateStatus(d.Orders, logg))
			r.Delete("/orders/{id}", controllers.OrderDelete(d.Orders, logg))

			r.Post("/shipping/book", controllers.ShippingBook(d.Shipping, logg))

			r.Put("/settings/shipping", controllers.ShippingSettingPut(d.Settings, logg))
			r.Put("/settings/{key}", controllers.SettingPut(d.Settings, logg))
		})
	})

	return r
}

// otpLimiter degrades to a passthrough when no cache is wired, matching the
// single-instance dev setup.
func otpLimiter(policy middleware.OTPRateLimitPolicy, client *pkgredis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.OTPRateLimit(policy, client, logg)
}

func readyCache(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
