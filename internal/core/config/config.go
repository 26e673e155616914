package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Operating modes of the flow endpoint.
const (
	// ModeFull resolves the order context, looks up subscriptions and writes tags.
	ModeFull = "full"
	// ModeSearchOnly only searches subscriptions by email and returns the raw results.
	ModeSearchOnly = "search-only"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Flow holds the webhook endpoint behaviour.
	Flow FlowConfig `mapstructure:",squash"`

	// Shopify holds the Admin API settings shared by all regions.
	Shopify ShopifyConfig `mapstructure:",squash"`

	// Seal holds the subscription API settings shared by all regions.
	Seal SealConfig `mapstructure:",squash"`

	// Cache holds the optional Redis cache settings.
	Cache CacheConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy settings.
	Proxy ProxyConfig `mapstructure:",squash"`

	// Regions holds the per-storefront credentials.
	Regions RegionsConfig `mapstructure:",squash"`
}

// FlowConfig controls how the order-created webhook is processed.
type FlowConfig struct {
	// Mode is either "full" or "search-only".
	Mode string `mapstructure:"FLOW_MODE" default:"full"`
	// DebugErrors exposes upstream diagnostics in error responses. Never enable in production.
	DebugErrors bool `mapstructure:"DEBUG_ERRORS"`
	// OutboundTimeout bounds every call to Seal and Shopify.
	OutboundTimeout time.Duration `mapstructure:"OUTBOUND_TIMEOUT" default:"10s"`
}

// ShopifyConfig holds the Admin GraphQL API settings.
type ShopifyConfig struct {
	// APIVersion is the versioned path segment, e.g. 2024-10.
	APIVersion string `mapstructure:"SHOPIFY_API_VERSION" default:"2024-10" required:"true"`
	// BaseURL overrides https://<shop> when set. Used for local testing.
	BaseURL string `mapstructure:"SHOPIFY_BASE_URL"`
}

// SealConfig holds the Seal Subscriptions merchant API settings.
type SealConfig struct {
	// BaseURL is the merchant API root.
	BaseURL string `mapstructure:"SEAL_API_URL" default:"https://app.sealsubscriptions.com/shopify/merchant/api" required:"true"`
}

// CacheConfig holds the Redis settings for the order lookup cache.
type CacheConfig struct {
	// RedisURL enables the cache when set, e.g. redis://localhost:6379/0.
	RedisURL string `mapstructure:"REDIS_URL"`
	// OrderTTL is how long an order-name lookup stays cached.
	OrderTTL time.Duration `mapstructure:"ORDER_CACHE_TTL" default:"24h"`
}

// ProxyConfig holds the outbound HTTP proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// RegionsConfig lists the credentials of every supported storefront.
// A region is enabled when its shop domain is set.
type RegionsConfig struct {
	UKShopDomain   string `mapstructure:"UK_SHOP_DOMAIN"`
	UKSealToken    string `mapstructure:"UK_SEAL_TOKEN"`
	UKFlowSecret   string `mapstructure:"UK_FLOW_SECRET"`
	UKShopifyToken string `mapstructure:"UK_SHOPIFY_TOKEN"`

	USShopDomain   string `mapstructure:"US_SHOP_DOMAIN"`
	USSealToken    string `mapstructure:"US_SEAL_TOKEN"`
	USFlowSecret   string `mapstructure:"US_FLOW_SECRET"`
	USShopifyToken string `mapstructure:"US_SHOPIFY_TOKEN"`

	EUShopDomain   string `mapstructure:"EU_SHOP_DOMAIN"`
	EUSealToken    string `mapstructure:"EU_SEAL_TOKEN"`
	EUFlowSecret   string `mapstructure:"EU_FLOW_SECRET"`
	EUShopifyToken string `mapstructure:"EU_SHOPIFY_TOKEN"`

	AUShopDomain   string `mapstructure:"AU_SHOP_DOMAIN"`
	AUSealToken    string `mapstructure:"AU_SEAL_TOKEN"`
	AUFlowSecret   string `mapstructure:"AU_FLOW_SECRET"`
	AUShopifyToken string `mapstructure:"AU_SHOPIFY_TOKEN"`
}

// RegionSettings is the flattened credential set of one storefront.
type RegionSettings struct {
	Code         string
	ShopDomain   string
	SealToken    string
	FlowSecret   string
	ShopifyToken string
}

// RegionSettings returns the regions that have a shop domain configured, in a fixed order.
func (c *AppConfig) RegionSettings() []RegionSettings {
	r := c.Regions
	all := []RegionSettings{
		{Code: "UK", ShopDomain: r.UKShopDomain, SealToken: r.UKSealToken, FlowSecret: r.UKFlowSecret, ShopifyToken: r.UKShopifyToken},
		{Code: "US", ShopDomain: r.USShopDomain, SealToken: r.USSealToken, FlowSecret: r.USFlowSecret, ShopifyToken: r.USShopifyToken},
		{Code: "EU", ShopDomain: r.EUShopDomain, SealToken: r.EUSealToken, FlowSecret: r.EUFlowSecret, ShopifyToken: r.EUShopifyToken},
		{Code: "AU", ShopDomain: r.AUShopDomain, SealToken: r.AUSealToken, FlowSecret: r.AUFlowSecret, ShopifyToken: r.AUShopifyToken},
	}

	out := make([]RegionSettings, 0, len(all))
	for _, s := range all {
		if strings.TrimSpace(s.ShopDomain) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if len(config.RegionSettings()) == 0 {
		return nil, errors.New("missing required configuration: at least one <REGION>_SHOP_DOMAIN")
	}

	if config.Flow.Mode != ModeFull && config.Flow.Mode != ModeSearchOnly {
		return nil, fmt.Errorf("invalid FLOW_MODE %q: must be %q or %q", config.Flow.Mode, ModeFull, ModeSearchOnly)
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
