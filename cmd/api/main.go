package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/ordermanagement-api/api/routes"
	"github.com/angelmondragon/ordermanagement-api/internal/accounts"
	"github.com/angelmondragon/ordermanagement-api/internal/customers"
	"github.com/angelmondragon/ordermanagement-api/internal/orders"
	"github.com/angelmondragon/ordermanagement-api/internal/products"
	pkgAuth "github.com/angelmondragon/ordermanagement-api/pkg/auth"
	"github.com/angelmondragon/ordermanagement-api/pkg/auth/revocation"
	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	"github.com/angelmondragon/ordermanagement-api/pkg/db"
	"github.com/angelmondragon/ordermanagement-api/pkg/env"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
	"github.com/angelmondragon/ordermanagement-api/pkg/metrics"
	"github.com/angelmondragon/ordermanagement-api/pkg/migrate"
	"github.com/angelmondragon/ordermanagement-api/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run())
}

// run wires and serves the API, returning the process exit code. Resources
// opened here are closed by its deferred cleanup on every return path.
func run() int {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: cfg.App.ServiceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		return 1
	}
	closers := []func() error{dbClient.Close}
	defer func() {
		if err := closeAll(closers); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		return 1
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		return 1
	}
	closers = append(closers, redisClient.Close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuthMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	issuer := pkgAuth.NewIssuer(cfg.JWT)
	revocations, err := revocation.NewRegistry(redisClient, cfg.Revocation)
	if err != nil {
		logg.Error(context.Background(), "failed to create revocation registry", err)
		return 1
	}

	accountRepo := accounts.NewRepository(dbClient.DB())
	gate, err := pkgAuth.NewGate(pkgAuth.GateParams{
		Verifier:    issuer,
		Revocations: revocations,
		Accounts:    accountRepo,
		FailOpen:    cfg.Revocation.FailOpen,
		Metrics:     authMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth gate", err)
		return 1
	}

	accountService, err := accounts.NewService(accounts.ServiceParams{
		Accounts:    accountRepo,
		Issuer:      issuer,
		Revocations: revocations,
		Password:    cfg.Password,
		Metrics:     authMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		return 1
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		return 1
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	builder, err := orders.NewBuilder(orders.BuilderParams{
		Repo:    orderRepo,
		Tx:      dbClient,
		Metrics: orderMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order builder", err)
		return 1
	}
	orderService, err := orders.NewService(orderRepo, builder)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		return 1
	}

	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:    customers.NewRepository(dbClient.DB()),
		Builder: builder,
		Tx:      dbClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		return 1
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":                    cfg.App.Env,
		"addr":                   addr,
		"revocation_fail_open":   cfg.Revocation.FailOpen,
		"metrics_endpoint_ready": cfg.FeatureFlags.ExposeMetrics,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gate,
			authMetrics,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			accountService,
			productService,
			customerService,
			orderService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			return 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			return 1
		}
	}
	return 0
}

// closeAll runs closers in reverse order and combines their errors.
func closeAll(closers []func() error) error {
	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	return err
}
