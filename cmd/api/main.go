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

	"github.com/rohanverma/vastra-backend/api/routes"
	"github.com/rohanverma/vastra-backend/internal/address"
	"github.com/rohanverma/vastra-backend/internal/auth"
	"github.com/rohanverma/vastra-backend/internal/catalog"
	checkoutsvc "github.com/rohanverma/vastra-backend/internal/checkout"
	"github.com/rohanverma/vastra-backend/internal/orders"
	"github.com/rohanverma/vastra-backend/internal/payments"
	"github.com/rohanverma/vastra-backend/internal/users"
	"github.com/rohanverma/vastra-backend/pkg/auth/session"
	"github.com/rohanverma/vastra-backend/pkg/config"
	"github.com/rohanverma/vastra-backend/pkg/db"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	"github.com/rohanverma/vastra-backend/pkg/logger"
	"github.com/rohanverma/vastra-backend/pkg/metrics"
	"github.com/rohanverma/vastra-backend/pkg/migrate"
	"github.com/rohanverma/vastra-backend/pkg/razorpay"
	"github.com/rohanverma/vastra-backend/pkg/redis"
	"github.com/rohanverma/vastra-backend/pkg/stripe"
)

const shutdownGrace = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	addressRepo := address.NewRepository(dbClient.DB())
	addressService, err := address.NewService(addressRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	provider, err := buildPaymentProvider(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment provider", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, dbClient, provider)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	currency, err := enums.ParseCurrency(cfg.Payments.Currency)
	if err != nil {
		logg.Error(context.Background(), "invalid checkout currency", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		TX:         dbClient,
		OrdersRepo: ordersRepo,
		Variants:   catalogRepo,
		Addresses:  addressRepo,
		Users:      usersRepo,
		Provider:   provider,
		Currency:   currency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"provider": cfg.Payments.Provider,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			sessionManager,
			authService,
			registerService,
			catalogService,
			addressService,
			checkoutService,
			ordersService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

// buildPaymentProvider constructs only the gateway the config selects.
func buildPaymentProvider(ctx context.Context, cfg *config.Config, logg *logger.Logger) (payments.Provider, error) {
	name, err := cfg.Payments.ProviderName()
	if err != nil {
		return nil, err
	}

	params := payments.FactoryParams{Config: cfg.Payments}
	switch name {
	case enums.PaymentProviderRazorpay:
		client, err := razorpay.NewClient(ctx, cfg.Razorpay, logg)
		if err != nil {
			return nil, err
		}
		params.Razorpay = client
	case enums.PaymentProviderStripe:
		client, err := stripe.NewClient(ctx, cfg.Stripe, logg)
		if err != nil {
			return nil, err
		}
		params.Stripe = client
	}

	return payments.NewProvider(params)
}
