package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Log     LogConfig
	ERP     ERPConfig
	Shopify ShopifyConfig
	CacheDB CacheDBConfig
	Redis   RedisConfig
	Sync    SyncConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"syncposhopify"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	AdminKey    string `envconfig:"ADMIN_KEY" default:""` // key for the admin HTTP surface
}

// ServerConfig holds HTTP server settings for the admin surface.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15m"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"` // text or json
}

// ERPConfig holds settings for the ERP products endpoint.
type ERPConfig struct {
	EndpointURL     string        `envconfig:"ERP_ENDPOINT_URL" default:""`
	APIKey          string        `envconfig:"ERP_API_KEY" default:""`
	Timeout         time.Duration `envconfig:"ERP_TIMEOUT" default:"15s"`
	DefaultLocation string        `envconfig:"ERP_DEFAULT_LOCATION" default:"CEDIS"`
}

// ShopifyConfig holds Shopify Admin API settings.
type ShopifyConfig struct {
	ShopDomain  string        `envconfig:"SHOPIFY_SHOP_DOMAIN" default:""`
	AccessToken string        `envconfig:"SHOPIFY_ACCESS_TOKEN" default:""`
	APIVersion  string        `envconfig:"SHOPIFY_API_VERSION" default:"2024-01"`
	CallTimeout time.Duration `envconfig:"SHOPIFY_CALL_TIMEOUT" default:"30s"`
}

// BaseURL returns the Admin API base URL for the configured shop and version.
func (s *ShopifyConfig) BaseURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s", s.ShopDomain, s.APIVersion)
}

// CacheDBConfig holds cache database settings.
type CacheDBConfig struct {
	Type string `envconfig:"CACHE_DB_TYPE" default:"sqlite"` // sqlite, postgres, or mysql
	Path string `envconfig:"CACHE_DB_PATH" default:"./data/cache.db"`

	Host     string `envconfig:"CACHE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"CACHE_DB_PORT" default:"5432"`
	Name     string `envconfig:"CACHE_DB_NAME" default:"syncposhopify"`
	User     string `envconfig:"CACHE_DB_USER" default:"postgres"`
	Password string `envconfig:"CACHE_DB_PASS" default:""`
	SSLMode  string `envconfig:"CACHE_DB_SSLMODE" default:"disable"`
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *CacheDBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (c *CacheDBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// RedisConfig holds Redis settings for the cycle lock and summary cache.
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Address returns the Redis address in host:port format.
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SyncConfig holds the synchronization engine settings.
type SyncConfig struct {
	// Threshold is the minimum absolute quantity delta that triggers an
	// update; 0 means any non-zero delta.
	Threshold int64 `envconfig:"SYNC_THRESHOLD" default:"0"`

	// PaceInterval spaces consecutive Shopify calls. The REST quota is 2
	// calls/second for standard shops.
	PaceInterval time.Duration `envconfig:"SYNC_PACE_INTERVAL" default:"500ms"`

	// ScheduleInterval is how often a cycle runs.
	ScheduleInterval time.Duration `envconfig:"SYNC_SCHEDULE_INTERVAL" default:"5m"`

	// CycleTimeout bounds one full cycle; 0 disables the deadline.
	CycleTimeout time.Duration `envconfig:"SYNC_CYCLE_TIMEOUT" default:"10m"`

	// LockTTL is the single-flight lock lease when Redis is enabled.
	LockTTL time.Duration `envconfig:"SYNC_LOCK_TTL" default:"15m"`

	// Locations maps warehouse names to cache location ids,
	// e.g. "CEDIS:1,TIENDA:2".
	Locations map[string]int64 `envconfig:"SYNC_LOCATIONS" default:"CEDIS:1"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
