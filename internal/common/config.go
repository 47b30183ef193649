// Package common provides shared utilities for Argos
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Storage backend names accepted in storage.backend
const (
	BackendDemo       = "demo"
	BackendSurrealDB  = "surrealdb"
	BackendPostgres   = "postgres"
	BackendPocketBase = "pocketbase"
)

// Config holds all configuration for Argos
type Config struct {
	Environment string        `toml:"environment"`
	Currency    string        `toml:"currency"` // Display currency code, no conversion is performed
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Chart       ChartConfig   `toml:"chart"`
	Demo        DemoConfig    `toml:"demo"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects the history provider and holds per-backend settings.
type StorageConfig struct {
	Backend    string           `toml:"backend"` // demo | surrealdb | postgres | pocketbase
	SurrealDB  SurrealDBConfig  `toml:"surrealdb"`
	Postgres   PostgresConfig   `toml:"postgres"`
	PocketBase PocketBaseConfig `toml:"pocketbase"`
}

// Address returns a printable location for the configured backend.
func (c *StorageConfig) Address() string {
	switch c.Backend {
	case BackendSurrealDB:
		return c.SurrealDB.Address
	case BackendPostgres:
		return "postgres"
	case BackendPocketBase:
		return c.PocketBase.BaseURL
	default:
		return "in-memory"
	}
}

// SurrealDBConfig holds SurrealDB connection settings
type SurrealDBConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// PostgresConfig holds Postgres connection settings
type PostgresConfig struct {
	DSN string `toml:"dsn"` // e.g. "host=localhost port=5432 user=postgres password=postgres dbname=argos sslmode=disable"
}

// PocketBaseConfig holds settings for the REST record backend
type PocketBaseConfig struct {
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token"`
	Collection string `toml:"collection_prefix"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *PocketBaseConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ChartConfig holds defaults for chart series requests
type ChartConfig struct {
	MaxPoints       int     `toml:"max_points"`
	EventThreshold  float64 `toml:"event_threshold"`
	DefaultViewport int     `toml:"default_viewport"`
	Location        string  `toml:"location"` // IANA zone used for calendar bucketing
}

// GetLocation loads the bucketing location, falling back to UTC.
func (c *ChartConfig) GetLocation() *time.Location {
	if c.Location == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DemoConfig holds settings for the in-memory demo data source
type DemoConfig struct {
	Seed int64  `toml:"seed"`
	TTL  string `toml:"ttl"`
}

// GetTTL parses and returns the demo cache TTL
func (c *DemoConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return FreshnessDemoData
	}
	return d
}

// AuthConfig holds the secret used to validate bearer tokens issued by the auth provider.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Currency:    "USD",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: BackendDemo,
			SurrealDB: SurrealDBConfig{
				Address:   "ws://localhost:8000/rpc",
				Namespace: "argos",
				Database:  "argos",
				Username:  "root",
				Password:  "root",
			},
			PocketBase: PocketBaseConfig{
				BaseURL:    "http://localhost:8090",
				Collection: "argos_",
				RateLimit:  10,
				Timeout:    "30s",
			},
		},
		Chart: ChartConfig{
			MaxPoints:       150,
			EventThreshold:  2.0,
			DefaultViewport: 900,
		},
		Demo: DemoConfig{
			Seed: 42,
			TTL:  "24h",
		},
		Auth: AuthConfig{
			JWTSecret: "dev-jwt-secret-change-in-production",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"console"},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ARGOS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ARGOS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ARGOS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ARGOS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("ARGOS_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if v := os.Getenv("ARGOS_SURREALDB_ADDRESS"); v != "" {
		config.Storage.SurrealDB.Address = v
	}
	if v := os.Getenv("ARGOS_SURREALDB_USERNAME"); v != "" {
		config.Storage.SurrealDB.Username = v
	}
	if v := os.Getenv("ARGOS_SURREALDB_PASSWORD"); v != "" {
		config.Storage.SurrealDB.Password = v
	}

	if v := os.Getenv("ARGOS_POSTGRES_DSN"); v != "" {
		config.Storage.Postgres.DSN = v
	}

	if v := os.Getenv("ARGOS_POCKETBASE_URL"); v != "" {
		config.Storage.PocketBase.BaseURL = v
	}
	if v := os.Getenv("ARGOS_POCKETBASE_TOKEN"); v != "" {
		config.Storage.PocketBase.Token = v
	}

	if v := os.Getenv("ARGOS_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if v := os.Getenv("ARGOS_CURRENCY"); v != "" {
		config.Currency = strings.ToUpper(v)
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendDemo, BackendSurrealDB, BackendPocketBase:
	case BackendPostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Chart.MaxPoints <= 0 {
		c.Chart.MaxPoints = 150
	}
	if c.Chart.EventThreshold <= 0 {
		c.Chart.EventThreshold = 2.0
	}
	if c.Chart.DefaultViewport <= 0 {
		c.Chart.DefaultViewport = 900
	}

	if c.IsProduction() && c.Auth.JWTSecret == NewDefaultConfig().Auth.JWTSecret {
		return fmt.Errorf("auth.jwt_secret must be set in production")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
