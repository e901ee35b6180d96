package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIURL            string        `mapstructure:"api_url"`
	APILocalURL       string        `mapstructure:"api_local_url"`
	APIHostedURL      string        `mapstructure:"api_hosted_url"`
	APIHosted         bool          `mapstructure:"api_hosted"`
	APIUseProxy       bool          `mapstructure:"api_use_proxy"`
	APIProxyOrigin    string        `mapstructure:"api_proxy_origin"`
	APIFallbackURL    string        `mapstructure:"api_fallback_url"`
	APIFallback       string        `mapstructure:"api_fallback"`
	APIMessages       string        `mapstructure:"api_messages"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`

	GeocodingURL            string        `mapstructure:"geocoding_url"`
	GeocodingTimeoutSeconds int64         `mapstructure:"geocoding_timeout_seconds"`
	GeocodingTimeout        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	ValkeyAddr             string        `mapstructure:"valkey_addr"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	SessionTTLSeconds      int64         `mapstructure:"session_ttl_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
	SessionTTL             time.Duration `mapstructure:"-"`

	AreasFile            string        `mapstructure:"areas_file"`
	PublishersFile       string        `mapstructure:"publishers_file"`
	WatchIntervalSeconds int64         `mapstructure:"watch_interval"`
	WatchInterval        time.Duration `mapstructure:"-"`
	MetricsAddr          string        `mapstructure:"metrics_addr"`

	DefaultLat float64 `mapstructure:"default_lat"`
	DefaultLng float64 `mapstructure:"default_lng"`
}

const (
	FallbackAuto     = "auto"
	FallbackDisabled = "disabled"
)

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "marketvisit")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("api_url", "")
	v.SetDefault("api_local_url", "http://localhost:8000")
	v.SetDefault("api_hosted_url", "https://survey-backend.dbaraka.shop")
	v.SetDefault("api_hosted", false)
	v.SetDefault("api_use_proxy", false)
	v.SetDefault("api_proxy_origin", "")
	v.SetDefault("api_fallback_url", "")
	v.SetDefault("api_fallback", FallbackAuto)
	v.SetDefault("api_messages", "en")
	v.SetDefault("api_timeout_seconds", 30)

	v.SetDefault("geocoding_url", "https://reverse-geocoding.raah.ir/v1/features")
	v.SetDefault("geocoding_timeout_seconds", 10)

	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/marketvisit.db")
	v.SetDefault("valkey_addr", "")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("session_ttl_seconds", int64((30*24*time.Hour)/time.Second))

	v.SetDefault("areas_file", "./configs/areas.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("watch_interval", 300) // seconds
	v.SetDefault("metrics_addr", "")

	v.SetDefault("default_lat", 0.0)
	v.SetDefault("default_lng", 0.0)
}

// normalize validates numeric settings and derives the duration fields.
func (c *Config) normalize() error {
	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	c.APITimeout = time.Duration(c.APITimeoutSeconds) * time.Second

	if c.GeocodingTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid geocoding_timeout_seconds (must be positive seconds)")
	}
	c.GeocodingTimeout = time.Duration(c.GeocodingTimeoutSeconds) * time.Second

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("invalid session_ttl_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second
	c.SessionTTL = time.Duration(c.SessionTTLSeconds) * time.Second

	if c.WatchIntervalSeconds <= 0 {
		return fmt.Errorf("invalid watch_interval (must be positive seconds)")
	}
	c.WatchInterval = time.Duration(c.WatchIntervalSeconds) * time.Second

	c.APIFallback = strings.ToLower(strings.TrimSpace(c.APIFallback))
	switch c.APIFallback {
	case "":
		c.APIFallback = FallbackAuto
	case FallbackAuto, FallbackDisabled:
	default:
		return fmt.Errorf("invalid api_fallback %q (expected %s or %s)", c.APIFallback, FallbackAuto, FallbackDisabled)
	}

	c.APIMessages = strings.ToLower(strings.TrimSpace(c.APIMessages))
	return nil
}
