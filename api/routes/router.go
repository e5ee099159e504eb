package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rohanverma/vastra-backend/api/controllers"
	"github.com/rohanverma/vastra-backend/api/middleware"
	"github.com/rohanverma/vastra-backend/internal/address"
	"github.com/rohanverma/vastra-backend/internal/auth"
	"github.com/rohanverma/vastra-backend/internal/catalog"
	checkoutsvc "github.com/rohanverma/vastra-backend/internal/checkout"
	"github.com/rohanverma/vastra-backend/internal/orders"
	"github.com/rohanverma/vastra-backend/pkg/auth/session"
	"github.com/rohanverma/vastra-backend/pkg/config"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	"github.com/rohanverma/vastra-backend/pkg/logger"
	"github.com/rohanverma/vastra-backend/pkg/metrics"
	"github.com/rohanverma/vastra-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	addressService address.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(httpMetrics),
		middleware.RateLimit(cfg.RateLimit, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// Interface conversions stay nil-safe when no redis client is wired,
	// as in router tests.
	var idemStore redis.IdempotencyStore
	var redisPinger pinger
	if redisClient != nil {
		idemStore = redisClient
		redisPinger = redisClient
	}
	idempotent := middleware.Idempotency(idemStore, cfg.Idempotency, logg)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg), idempotent).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	// Storefront browsing and the gateway callback are unauthenticated.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
		r.Get("/products", controllers.CatalogProducts(catalogService, logg))
		r.Get("/products/{productId}", controllers.CatalogProductDetail(catalogService, logg))
	})
	r.Post("/api/v1/payments/verify", controllers.PaymentVerify(ordersService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(addressService, logg))
			r.Post("/", controllers.AddressCreate(addressService, logg))
			r.Put("/{addressId}", controllers.AddressUpdate(addressService, logg))
			r.Post("/{addressId}/default", controllers.AddressSetDefault(addressService, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(addressService, logg))
		})

		// Route-level mounting so chi has resolved the full pattern by the
		// time the idempotency rules are consulted.
		r.With(idempotent).Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.MyOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.MyOrderDetail(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(catalogService, logg))
			r.With(idempotent).Post("/", controllers.AdminCreateCategory(catalogService, logg))
			r.Put("/{categoryId}", controllers.AdminUpdateCategory(catalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(catalogService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(catalogService, logg))
			r.With(idempotent).Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Get("/{productId}", controllers.AdminGetProduct(catalogService, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.With(idempotent).Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
		})
	})

	return r
}
