package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/api/controllers"
	"github.com/Vickmut/v0-haven-craft-website-design/api/routes"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/catalog"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/discounts"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/identity"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/profiles"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/remote"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/wishlist"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/auth/session"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/metrics"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/migrate"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	clients, err := remote.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := clients.Close(); err != nil {
			logg.Error(context.Background(), "error closing connections", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, clients.DB); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	slot, err := clients.CatalogSlot(cfg.Catalog)
	if err != nil {
		return err
	}
	catalogStore, err := catalog.NewStore(catalog.Options{
		Slot:    slot,
		Key:     cfg.Catalog.Key,
		Logger:  logg,
		Metrics: metrics.NewCatalogMetrics(registry),
	})
	if err != nil {
		return err
	}
	if err := catalogStore.Initialize(ctx); err != nil {
		return err
	}

	sessionManager, err := session.NewManager(clients.Redis, cfg.JWT)
	if err != nil {
		return err
	}

	profileRepo := profiles.NewRepository(clients.DB.DB())

	var google identity.GoogleProvider
	if cfg.Google.Enabled() {
		g, err := identity.NewGoogleOAuth(cfg.Google)
		if err != nil {
			return err
		}
		google = g
	}

	identityService, err := identity.NewService(identity.ServiceParams{
		Accounts:  identity.NewAccountRepository(clients.DB.DB()),
		Profiles:  profileRepo,
		Sessions:  sessionManager,
		Google:    google,
		JWT:       cfg.JWT,
		Passwords: cfg.Password,
		Admin:     cfg.Admin,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Store:   profileRepo,
		Catalog: catalogStore,
	})
	if err != nil {
		return err
	}

	broker, err := clients.DiscountBroker(cfg.Discounts, logg)
	if err != nil {
		return err
	}
	discountService, err := discounts.NewService(discounts.ServiceParams{
		Repo:       discounts.NewRepository(clients.DB.DB()),
		Broker:     broker,
		Logger:     logg,
		BufferSize: cfg.Discounts.BufferSize,
	})
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- discountService.Listen(ctx)
	}()

	readiness := map[string]controllers.Pinger{}
	for name, p := range clients.Readiness() {
		readiness[name] = p
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			clients.Redis,
			sessionManager,
			catalogStore,
			identityService,
			wishlistService,
			discountService,
			metrics.NewHTTPMetrics(registry),
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams never finish on their own; end them when shutdown starts.
	streamCtx, endStreams := context.WithCancel(context.Background())
	server.BaseContext = func(net.Listener) context.Context { return streamCtx }
	server.RegisterOnShutdown(endStreams)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"catalog": cfg.Catalog.Backend,
		"broker":  cfg.Discounts.Broker,
	})
	logg.Info(logCtx, "starting api server")

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-listenErr:
		if err != nil {
			logg.Error(logCtx, "discount listener stopped", err)
		}
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
