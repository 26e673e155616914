package main

import (
	"net/http"

	"flow-seal-proxy/internal/core/cache"
	"flow-seal-proxy/internal/core/config"
	"flow-seal-proxy/internal/core/httpclient"
	"flow-seal-proxy/internal/core/metrics"
	"flow-seal-proxy/internal/core/proxy"
	"flow-seal-proxy/internal/core/server"
	flowhandler "flow-seal-proxy/internal/features/flow/handler"
	flowports "flow-seal-proxy/internal/features/flow/ports"
	flowservice "flow-seal-proxy/internal/features/flow/service"
	orderadapter "flow-seal-proxy/internal/features/orders/adapters"
	orderports "flow-seal-proxy/internal/features/orders/ports"
	orderservice "flow-seal-proxy/internal/features/orders/service"
	regionservice "flow-seal-proxy/internal/features/regions/service"
	subadapter "flow-seal-proxy/internal/features/subscriptions/adapters"
	subservice "flow-seal-proxy/internal/features/subscriptions/service"

	"go.uber.org/dig"
)

const cacheKeyPrefix = "flow-seal-proxy:"

// buildContainer registers every component of the service.
func buildContainer(cfg *config.AppConfig) (*dig.Container, error) {
	c := dig.New()

	providers := []any{
		// --- Configuration & infrastructure ---
		func() *config.AppConfig { return cfg },
		metrics.New,
		func(cfg *config.AppConfig, m *metrics.Recorder) *http.Client {
			return httpclient.NewClient(cfg.Flow.OutboundTimeout, proxy.FromConfig(cfg.Proxy), m)
		},
		newCache,
		func(cfg *config.AppConfig) (*regionservice.Registry, error) {
			return regionservice.NewRegistry(cfg.RegionSettings())
		},

		// --- Secondary adapters ---
		func(client *http.Client, cfg *config.AppConfig) *orderadapter.ShopifyAdapter {
			return orderadapter.NewShopifyAdapter(client, cfg.Shopify.APIVersion, cfg.Shopify.BaseURL)
		},
		func(shopify *orderadapter.ShopifyAdapter, store cache.Cache, cfg *config.AppConfig) orderports.OrderProvider {
			if store == nil {
				return shopify
			}
			return orderadapter.NewCachedOrderProvider(shopify, store, cfg.Cache.OrderTTL)
		},
		func(client *http.Client, cfg *config.AppConfig) *subadapter.SealAdapter {
			return subadapter.NewSealAdapter(client, cfg.Seal.BaseURL)
		},

		// --- Domain services ---
		orderservice.NewContextResolver,
		func(shopify *orderadapter.ShopifyAdapter, m *metrics.Recorder) *orderservice.TagWriter {
			return orderservice.NewTagWriter(shopify, m)
		},
		func(seal *subadapter.SealAdapter, m *metrics.Recorder) *subservice.LookupService {
			return subservice.NewLookupService(seal, m)
		},
		func(
			registry *regionservice.Registry,
			resolver *orderservice.ContextResolver,
			lookup *subservice.LookupService,
			writer *orderservice.TagWriter,
		) flowports.FlowService {
			return flowservice.NewFlowService(registry, resolver, lookup, writer)
		},

		// --- Primary adapters ---
		func(s flowports.FlowService, cfg *config.AppConfig, m *metrics.Recorder) *flowhandler.FlowHandler {
			return flowhandler.NewFlowHandler(s, cfg.Flow, m)
		},
		func(registry *regionservice.Registry, cfg *config.AppConfig, store cache.Cache) *flowhandler.HealthHandler {
			return flowhandler.NewHealthHandler(registry, cfg.Flow.Mode, store)
		},
		newServer,
	}

	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// newCache connects to Redis when REDIS_URL is set. Without it the order cache is disabled.
func newCache(cfg *config.AppConfig) (cache.Cache, error) {
	if cfg.Cache.RedisURL == "" {
		return nil, nil
	}
	return cache.NewRedisAdapter(cfg.Cache.RedisURL, cacheKeyPrefix)
}

// newServer builds the HTTP server and registers the routes.
func newServer(cfg *config.AppConfig, m *metrics.Recorder, flow *flowhandler.FlowHandler, health *flowhandler.HealthHandler) *server.Server {
	srv := server.New(cfg, m)

	srv.App.Get("/health", health.Health)
	srv.App.Post("/flow/order-created", flow.OrderCreated)

	return srv
}
