package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hanagata/storefront/internal/checkout"
	"github.com/hanagata/storefront/internal/coupons"
	"github.com/hanagata/storefront/internal/handlers"
	"github.com/hanagata/storefront/internal/platform/config"
	"github.com/hanagata/storefront/internal/platform/kvstore"
	"github.com/hanagata/storefront/internal/platform/observability"
	"github.com/hanagata/storefront/internal/stores"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		logger.Fatal("failed to open key/value store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close error", zap.Error(err))
		}
	}()

	persistence, err := kvstore.NewPersistent(store, logger.Named("kvstore"))
	if err != nil {
		logger.Fatal("failed to initialise persistence layer", zap.Error(err))
	}

	registry, err := stores.NewRegistry(stores.RegistryDeps{
		Persistence: persistence,
		Logger:      logger.Named("stores"),
	})
	if err != nil {
		logger.Fatal("failed to initialise store registry", zap.Error(err))
	}

	catalog, err := loadCatalog(cfg.Coupons, logger)
	if err != nil {
		logger.Fatal("failed to load coupon catalog", zap.Error(err))
	}
	engine := coupons.NewEngine(catalog, nil)

	builder := checkout.NewBuilder(checkout.BuilderDeps{
		SubmitDelay: cfg.Checkout.SubmitDelay,
	})

	router := handlers.NewRouter(handlers.RouterDeps{
		Cart:     handlers.NewCartHandlers(registry),
		Wishlist: handlers.NewWishlistHandlers(registry),
		Coupons:  handlers.NewCouponHandlers(registry, engine),
		Checkout: handlers.NewCheckoutHandlers(registry, builder, engine),
		Middlewares: []func(http.Handler) http.Handler{
			observability.RequestLoggerMiddleware(logger.Named("http")),
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg config.StoreConfig) (kvstore.Store, error) {
	if cfg.Path == "" || cfg.Path == ":memory:" {
		return kvstore.NewMemoryStore(), nil
	}
	return kvstore.OpenSQLite(cfg.Path)
}

func loadCatalog(cfg config.CouponConfig, logger *zap.Logger) (coupons.Catalog, error) {
	if cfg.CatalogFile == "" {
		return coupons.DefaultCatalog(), nil
	}
	catalog, err := coupons.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return coupons.Catalog{}, err
	}
	logger.Info("coupon catalog loaded",
		zap.String("file", cfg.CatalogFile),
		zap.Int("coupons", catalog.Len()))
	return catalog, nil
}
