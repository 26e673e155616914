package domain

import (
	"errors"
	"regexp"
	"strings"
)

// Code identifies one of the supported storefront regions.
type Code string

const (
	CodeUK Code = "UK"
	CodeUS Code = "US"
	CodeEU Code = "EU"
	CodeAU Code = "AU"
)

var (
	// ErrInvalidShopDomain is returned when the shop domain is not <label>.myshopify.com.
	ErrInvalidShopDomain = errors.New("invalid shop domain")
	// ErrShopNotConfigured is returned when a well-formed shop domain has no region.
	ErrShopNotConfigured = errors.New("shop not configured")
	// ErrUnknownRegionCode is returned when a region code is outside the supported set.
	ErrUnknownRegionCode = errors.New("unknown region code")
	// ErrUnauthorized is returned when the X-Flow-Secret header does not match.
	ErrUnauthorized = errors.New("invalid flow secret")
	// ErrMissingCredentials is returned when a configured region lacks a token it needs.
	ErrMissingCredentials = errors.New("missing server credentials for shop")
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// Region is the immutable credential set of one storefront.
type Region struct {
	// Code is the region identifier, e.g. UK.
	Code Code
	// ShopDomain is the canonical <label>.myshopify.com domain.
	ShopDomain string
	// SealToken authenticates against the Seal Subscriptions API.
	SealToken string
	// FlowSecret is the optional shared secret expected in X-Flow-Secret.
	FlowSecret string
	// ShopifyToken authenticates against the Shopify Admin API.
	ShopifyToken string
}

// HasSecret reports whether webhook calls for this region must carry a shared secret.
func (r Region) HasSecret() bool {
	return r.FlowSecret != ""
}

// ValidCode reports whether c is one of the supported region codes.
func ValidCode(c Code) bool {
	switch c {
	case CodeUK, CodeUS, CodeEU, CodeAU:
		return true
	}
	return false
}

// ValidateShopDomain checks a shop domain exactly as received against the
// <label>.myshopify.com pattern. No trimming or case folding is applied.
func ValidateShopDomain(domain string) error {
	if !shopDomainPattern.MatchString(domain) {
		return ErrInvalidShopDomain
	}
	return nil
}

// NormalizeShopDomain trims and lower-cases a configured shop domain, then validates it.
// Only configuration goes through here; webhook input uses ValidateShopDomain.
func NormalizeShopDomain(raw string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if err := ValidateShopDomain(domain); err != nil {
		return "", err
	}
	return domain, nil
}
