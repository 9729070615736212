package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maisonlumiere/storefront-client/internal/address"
	"github.com/maisonlumiere/storefront-client/internal/cart"
	"github.com/maisonlumiere/storefront-client/internal/catalog"
	"github.com/maisonlumiere/storefront-client/internal/session"
	"github.com/maisonlumiere/storefront-client/internal/wishlist"
	"github.com/maisonlumiere/storefront-client/pkg/api"
	"github.com/maisonlumiere/storefront-client/pkg/config"
	"github.com/maisonlumiere/storefront-client/pkg/logger"
	"github.com/maisonlumiere/storefront-client/pkg/metrics"
	"github.com/maisonlumiere/storefront-client/pkg/notify"
	"github.com/maisonlumiere/storefront-client/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	vault, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap session vault", err)
		os.Exit(1)
	}
	defer func() {
		if err := vault.Close(); err != nil {
			logg.Error(ctx, "error closing session vault", err)
		}
	}()

	registry := prometheus.NewRegistry()
	client := api.NewClient(
		api.WithBaseURL(cfg.API.ResolveBaseURL(cfg.App.IsDev())),
		api.WithAssetBaseURL(cfg.API.ResolveAssetBaseURL(cfg.App.IsDev())),
		api.WithTimeout(cfg.API.Timeout),
		api.WithGetRetries(cfg.API.GetRetries),
		api.WithLogger(logg),
		api.WithMetrics(metrics.NewHTTPClientMetrics(registry)),
	)

	sessionStore, err := session.NewStore(session.StoreParams{
		API:    client,
		Vault:  vault,
		Logger: logg,
		TTL:    cfg.Session.TTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session store", err)
		os.Exit(1)
	}

	notifier := notify.NewLogNotifier(logg)

	cartStore, err := cart.NewStore(cart.StoreParams{
		API:      client,
		Session:  sessionStore,
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	wishlistStore, err := wishlist.NewStore(wishlist.StoreParams{
		API:      client,
		Session:  sessionStore,
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create wishlist store", err)
		os.Exit(1)
	}

	if _, err := address.NewService(client, sessionStore, logg); err != nil {
		logg.Error(ctx, "failed to create address service", err)
		os.Exit(1)
	}

	if err := sessionStore.Hydrate(ctx); err != nil {
		logg.Warn(ctx, "session hydration failed: "+err.Error())
	}

	catalogService := catalog.NewService(client, logg)

	categories, err := catalogService.Categories(ctx)
	if err != nil {
		logg.Error(ctx, "failed to fetch categories", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "categories", len(categories)), "category tree loaded")

	pager := catalog.NewPaginator(catalogService, catalog.Filters{Sort: catalog.SortNewest})
	for pager.HasMore() {
		page, err := pager.Next(ctx)
		if err != nil {
			logg.Error(ctx, "failed to fetch products page", err)
			os.Exit(1)
		}
		if page == nil {
			break
		}
	}
	logg.Info(logg.WithField(ctx, "products", len(pager.Products())), "catalog browse complete")

	if sessionStore.IsAuthenticated() {
		if err := cartStore.Refresh(ctx); err != nil {
			logg.Warn(ctx, "cart refresh failed: "+err.Error())
		}
		if err := wishlistStore.Refresh(ctx); err != nil {
			logg.Warn(ctx, "wishlist refresh failed: "+err.Error())
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"cart_items":     cartStore.Count(),
			"wishlist_items": wishlistStore.Count(),
		}), "session restored")
	}
}
