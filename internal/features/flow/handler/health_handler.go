package handler

import (
	"context"
	"time"

	"flow-seal-proxy/internal/core/cache"

	"github.com/gofiber/fiber/v2"
)

const cachePingTimeout = 2 * time.Second

// RegionInfo exposes what the health endpoint reports about configured regions.
type RegionInfo interface {
	Shops() []string
	SealConfigured() map[string]bool
	ShopifyConfigured() map[string]bool
}

// HealthHandler reports liveness and configuration visibility.
type HealthHandler struct {
	regions RegionInfo
	mode    string
	// cache is nil when Redis is not configured.
	cache cache.Cache
}

// NewHealthHandler creates a new instance of HealthHandler.
func NewHealthHandler(regions RegionInfo, mode string, c cache.Cache) *HealthHandler {
	return &HealthHandler{
		regions: regions,
		mode:    mode,
		cache:   c,
	}
}

// HealthResponse is the body of GET /health. No secret is ever included.
type HealthResponse struct {
	OK                bool            `json:"ok"`
	Mode              string          `json:"mode"`
	Shops             []string        `json:"shops"`
	SealConfigured    map[string]bool `json:"sealConfigured"`
	ShopifyConfigured map[string]bool `json:"shopifyConfigured"`
	Cache             string          `json:"cache,omitempty"`
}

// Health handles GET /health.
// @Summary Health check
// @Description Reports the configured shops and which tokens are present. The service stays healthy when the cache is down.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := HealthResponse{
		OK:                true,
		Mode:              h.mode,
		Shops:             h.regions.Shops(),
		SealConfigured:    h.regions.SealConfigured(),
		ShopifyConfigured: h.regions.ShopifyConfigured(),
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), cachePingTimeout)
		defer cancel()

		resp.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Cache = err.Error()
		}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
