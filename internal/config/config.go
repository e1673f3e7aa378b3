// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Store    StoreConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxPreviewSize is the largest CSV body accepted by the preview endpoint (default: 10MB)
	MaxPreviewSize int64 `env:"SERVER_MAX_PREVIEW_SIZE" default:"10485760"`
}

// SourceConfig holds settings for fetching the published sheet.
type SourceConfig struct {
	// SheetURL is the CSV export URL of the spreadsheet (required)
	SheetURL string `env:"SHEET_URL" envAlt:"SOURCE_URL" required:"true"`

	// Timeout bounds a single fetch including body read (default: 30s)
	Timeout time.Duration `env:"SOURCE_TIMEOUT" default:"30s"`

	// UserAgent is sent with every fetch
	UserAgent string `env:"SOURCE_USER_AGENT" default:"vidsheet/1.0"`

	// MaxBodySize is the largest accepted response body in bytes (default: 20MB)
	MaxBodySize int64 `env:"SOURCE_MAX_BODY_SIZE" default:"20971520"`

	// MaxRedirects limits redirect hops; published sheets redirect at least once (default: 5)
	MaxRedirects int `env:"SOURCE_MAX_REDIRECTS" default:"5"`

	// CacheBust appends a timestamp query parameter to every fetch (default: true)
	CacheBust bool `env:"SOURCE_CACHE_BUST" default:"true"`

	// RefreshInterval is how often the sheet is re-fetched; 0 disables the scheduler (default: 5m)
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" default:"5m"`

	// HeaderScanRows bounds the header row search (default: 20)
	HeaderScanRows int `env:"INGEST_HEADER_SCAN_ROWS" default:"20"`
}

// StoreConfig holds snapshot persistence settings.
type StoreConfig struct {
	// Driver selects the backend: postgres, sqlite or none (default: sqlite)
	Driver string `env:"STORE_DRIVER" default:"sqlite"`

	// DatabaseURL is the PostgreSQL connection string (required for postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// SQLitePath is the database file for the sqlite driver (default: vidsheet.db)
	SQLitePath string `env:"SQLITE_PATH" default:"vidsheet.db"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// RunHistory is how many refresh runs to keep; older runs are pruned (default: 200)
	RunHistory int `env:"STORE_RUN_HISTORY" default:"200"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RefreshLimit is requests per minute for refresh and preview endpoints (default: 6)
	RefreshLimit int `env:"RATE_LIMIT_REFRESH" default:"6"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects mutating endpoints with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// AllowedOrigins is a comma-separated list of origins allowed by CORS (default: *)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Store driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
