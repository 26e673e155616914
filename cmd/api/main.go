package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"flow-seal-proxy/internal/core/cache"
	"flow-seal-proxy/internal/core/config"
	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/proxy"
	"flow-seal-proxy/internal/core/server"
	regionservice "flow-seal-proxy/internal/features/regions/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title Flow Seal Proxy API
// @version 1.0
// @description Tags Shopify orders and customers with their Seal subscriptions when Shopify Flow reports a new order.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("mode", cfg.Flow.Mode),
		zap.Duration("outbound_timeout", cfg.Flow.OutboundTimeout),
	)

	if p := proxy.FromConfig(cfg.Proxy); p.HasProxy() {
		l.Info("Outbound proxy enabled", zap.String("proxy", p.HostPort()))
	}

	c, err := buildContainer(cfg)
	if err != nil {
		l.Fatal("Failed to build container", zap.Error(err))
	}

	if err := c.Invoke(run); err != nil {
		l.Fatal("Application stopped with error", zap.Error(err))
	}
}

// run serves HTTP until SIGINT or SIGTERM, then drains in-flight webhooks.
func run(srv *server.Server, registry *regionservice.Registry, store cache.Cache) error {
	l := logger.Get()

	logRegions(registry)
	if store != nil {
		defer store.Close()
		l.Info("Order cache enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		l.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	l.Info("Shutdown complete")
	return nil
}

// logRegions reports which credentials each region has. Secrets are never logged.
func logRegions(registry *regionservice.Registry) {
	seal := registry.SealConfigured()
	shopify := registry.ShopifyConfigured()

	for _, region := range registry.Regions() {
		code := string(region.Code)
		logger.Get().Info("Region configured",
			zap.String("region", code),
			zap.String("shop", region.ShopDomain),
			zap.Bool("seal_token", seal[code]),
			zap.Bool("shopify_token", shopify[code]),
			zap.Bool("flow_secret", region.HasSecret()),
		)
	}
}
