// Package config loads the matrix wizard's settings from environment
// variables. Every field has a default except the database URL, which is
// only demanded when the postgres store is selected. Load validates the
// result so a misconfigured process exits before it binds a port.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Session  SessionConfig
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

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including the final flush
	// of live sessions to the store (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// StoreConfig selects where session snapshots are persisted.
type StoreConfig struct {
	// Backend is one of memory, file, postgres (default: memory)
	Backend string `env:"STORE_BACKEND" default:"memory"`

	// Dir holds one YAML file per session when Backend is file.
	Dir string `env:"STORE_DIR" default:"./data/sessions"`

	// URL is the PostgreSQL connection string. Required for the postgres
	// backend. Supports both DATABASE_URL and DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SessionConfig holds wizard session settings.
type SessionConfig struct {
	// MaxActive caps the number of sessions held in memory (default: 100)
	MaxActive int `env:"SESSION_MAX_ACTIVE" default:"100"`

	// MaxWait is how long a create or resume waits for a free slot (default: 5s)
	MaxWait time.Duration `env:"SESSION_MAX_WAIT" default:"5s"`

	// IdleTTL evicts sessions untouched for this long. Evicted sessions
	// are saved and can be resumed from the store (default: 30m)
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" default:"30m"`

	// ReapInterval is how often idle sessions are looked for (default: 1m)
	ReapInterval time.Duration `env:"SESSION_REAP_INTERVAL" default:"1m"`

	// GridSize is the largest row and column count accepted (default: 10)
	GridSize int `env:"SESSION_GRID_SIZE" default:"10"`

	// FillEmptyWithZero treats blank cells as 0 when a grid is committed.
	// When false a blank cell fails the commit (default: true)
	FillEmptyWithZero bool `env:"SESSION_FILL_EMPTY_WITH_ZERO" default:"true"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per client IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File receives the terminal client's log; the server always logs to
	// stdout (default: matrixwiz.log)
	File string `env:"LOG_FILE" default:"matrixwiz.log"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
