package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv sets the given variables and unsets them when the test ends.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("FLOW_MODE")
	os.Unsetenv("OUTBOUND_TIMEOUT")

	setEnv(t, map[string]string{
		"UK_SHOP_DOMAIN": "shop-uk.myshopify.com",
	})

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ModeFull, cfg.Flow.Mode)
	assert.False(t, cfg.Flow.DebugErrors)
	assert.Equal(t, 10*time.Second, cfg.Flow.OutboundTimeout)
	assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
	assert.Equal(t, "https://app.sealsubscriptions.com/shopify/merchant/api", cfg.Seal.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.OrderTTL)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":             "production",
		"LOG_LEVEL":           "debug",
		"SERVER_PORT":         "9090",
		"FLOW_MODE":           "search-only",
		"DEBUG_ERRORS":        "true",
		"OUTBOUND_TIMEOUT":    "3s",
		"SHOPIFY_API_VERSION": "2025-01",
		"UK_SHOP_DOMAIN":      "shop-uk.myshopify.com",
		"UK_SEAL_TOKEN":       "seal_uk",
		"UK_FLOW_SECRET":      "S",
		"UK_SHOPIFY_TOKEN":    "shpat_uk",
		"US_SHOP_DOMAIN":      "shop-us.myshopify.com",
		"US_SEAL_TOKEN":       "seal_us",
	})

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, ModeSearchOnly, cfg.Flow.Mode)
	assert.True(t, cfg.Flow.DebugErrors)
	assert.Equal(t, 3*time.Second, cfg.Flow.OutboundTimeout)
	assert.Equal(t, "2025-01", cfg.Shopify.APIVersion)

	regions := cfg.RegionSettings()
	require.Len(t, regions, 2)
	assert.Equal(t, RegionSettings{
		Code:         "UK",
		ShopDomain:   "shop-uk.myshopify.com",
		SealToken:    "seal_uk",
		FlowSecret:   "S",
		ShopifyToken: "shpat_uk",
	}, regions[0])
	assert.Equal(t, "US", regions[1].Code)
	assert.Empty(t, regions[1].FlowSecret)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
EU_SHOP_DOMAIN=shop-eu.myshopify.com
EU_SEAL_TOKEN=seal_eu
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	require.Len(t, cfg.RegionSettings(), 1)
	assert.Equal(t, "EU", cfg.RegionSettings()[0].Code)
}

// TestLoad_ValidationFailure verifies that a config without any region is rejected.
func TestLoad_ValidationFailure(t *testing.T) {
	for _, code := range []string{"UK", "US", "EU", "AU"} {
		os.Unsetenv(code + "_SHOP_DOMAIN")
	}

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoad_InvalidMode verifies that unknown modes are rejected.
func TestLoad_InvalidMode(t *testing.T) {
	setEnv(t, map[string]string{
		"UK_SHOP_DOMAIN": "shop-uk.myshopify.com",
		"FLOW_MODE":      "tag-only",
	})

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid FLOW_MODE")
}
