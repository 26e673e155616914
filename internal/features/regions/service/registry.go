package service

import (
	"crypto/subtle"
	"fmt"

	"flow-seal-proxy/internal/core/config"
	"flow-seal-proxy/internal/features/regions/domain"
)

// Registry maps shop domains to their region credentials.
// It is built once at startup and only read afterwards, so concurrent use needs no locking.
type Registry struct {
	byDomain map[string]domain.Region
	ordered  []domain.Region
}

// NewRegistry builds the registry from the configured regions.
// Unknown codes, malformed domains and duplicate domains are rejected.
func NewRegistry(settings []config.RegionSettings) (*Registry, error) {
	r := &Registry{
		byDomain: make(map[string]domain.Region, len(settings)),
		ordered:  make([]domain.Region, 0, len(settings)),
	}

	for _, s := range settings {
		code := domain.Code(s.Code)
		if !domain.ValidCode(code) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegionCode, s.Code)
		}

		shop, err := domain.NormalizeShopDomain(s.ShopDomain)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w: %q", s.Code, err, s.ShopDomain)
		}

		if existing, ok := r.byDomain[shop]; ok {
			return nil, fmt.Errorf("region %s: shop %s already configured for region %s", s.Code, shop, existing.Code)
		}

		region := domain.Region{
			Code:         code,
			ShopDomain:   shop,
			SealToken:    s.SealToken,
			FlowSecret:   s.FlowSecret,
			ShopifyToken: s.ShopifyToken,
		}
		r.byDomain[shop] = region
		r.ordered = append(r.ordered, region)
	}

	return r, nil
}

// Resolve validates the shop domain as received and returns its region.
// A malformed domain, upper-case or padded ones included, yields ErrInvalidShopDomain;
// an unknown one ErrShopNotConfigured.
func (r *Registry) Resolve(shopDomain string) (domain.Region, error) {
	if err := domain.ValidateShopDomain(shopDomain); err != nil {
		return domain.Region{}, err
	}

	region, ok := r.byDomain[shopDomain]
	if !ok {
		return domain.Region{}, fmt.Errorf("%w: %s", domain.ErrShopNotConfigured, shopDomain)
	}
	return region, nil
}

// Authenticate checks the X-Flow-Secret header against the region secret.
// Regions without a secret accept every request. An empty header always fails.
func (r *Registry) Authenticate(region domain.Region, header string) error {
	if !region.HasSecret() {
		return nil
	}
	if header == "" {
		return domain.ErrUnauthorized
	}

	got := []byte(header)
	want := []byte(region.FlowSecret)
	if len(got) != len(want) {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// CheckCredentials verifies the region carries the tokens the given mode needs.
// Search-only mode never touches Shopify, so it only requires the Seal token.
func (r *Registry) CheckCredentials(region domain.Region, mode string) error {
	if region.SealToken == "" {
		return fmt.Errorf("%w: %s has no Seal token", domain.ErrMissingCredentials, region.ShopDomain)
	}
	if mode != config.ModeSearchOnly && region.ShopifyToken == "" {
		return fmt.Errorf("%w: %s has no Shopify token", domain.ErrMissingCredentials, region.ShopDomain)
	}
	return nil
}

// Regions returns the configured regions in configuration order.
func (r *Registry) Regions() []domain.Region {
	out := make([]domain.Region, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Shops returns the configured shop domains in configuration order.
func (r *Registry) Shops() []string {
	out := make([]string, 0, len(r.ordered))
	for _, region := range r.ordered {
		out = append(out, region.ShopDomain)
	}
	return out
}

// SealConfigured reports, per region code, whether a Seal token is present.
func (r *Registry) SealConfigured() map[string]bool {
	out := make(map[string]bool, len(r.ordered))
	for _, region := range r.ordered {
		out[string(region.Code)] = region.SealToken != ""
	}
	return out
}

// ShopifyConfigured reports, per region code, whether a Shopify token is present.
func (r *Registry) ShopifyConfigured() map[string]bool {
	out := make(map[string]bool, len(r.ordered))
	for _, region := range r.ordered {
		out[string(region.Code)] = region.ShopifyToken != ""
	}
	return out
}
