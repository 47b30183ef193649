package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Storage.Backend != BackendDemo {
		t.Errorf("Storage.Backend default = %q, want %q", cfg.Storage.Backend, BackendDemo)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("ARGOS_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_BackendEnvOverride(t *testing.T) {
	t.Setenv("ARGOS_STORAGE_BACKEND", "SurrealDB")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Backend != BackendSurrealDB {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendSurrealDB)
	}
}

func TestConfig_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "argos.toml")
	content := `
environment = "staging"

[server]
port = 7070

[storage]
backend = "pocketbase"

[storage.pocketbase]
base_url = "http://pb.local:8090"
rate_limit = 3

[chart]
max_points = 200
event_threshold = 3.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Storage.PocketBase.BaseURL != "http://pb.local:8090" {
		t.Errorf("PocketBase.BaseURL = %q", cfg.Storage.PocketBase.BaseURL)
	}
	if cfg.Storage.PocketBase.RateLimit != 3 {
		t.Errorf("PocketBase.RateLimit = %d, want 3", cfg.Storage.PocketBase.RateLimit)
	}
	// Unset keys keep their defaults
	if cfg.Storage.PocketBase.Collection != "argos_" {
		t.Errorf("PocketBase.Collection = %q, want argos_", cfg.Storage.PocketBase.Collection)
	}
	if cfg.Chart.MaxPoints != 200 {
		t.Errorf("Chart.MaxPoints = %d, want 200", cfg.Chart.MaxPoints)
	}
	if cfg.Chart.EventThreshold != 3.0 {
		t.Errorf("Chart.EventThreshold = %v, want 3.0", cfg.Chart.EventThreshold)
	}
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Chart.MaxPoints != 150 {
		t.Errorf("Chart.MaxPoints = %d, want 150", cfg.Chart.MaxPoints)
	}
}

func TestConfig_ValidateUnknownBackend(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = "mongodb"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfig_ValidatePostgresRequiresDSN(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = BackendPostgres
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when postgres DSN is empty")
	}

	cfg.Storage.Postgres.DSN = "host=localhost dbname=argos sslmode=disable"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_ValidateProductionSecret(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for default JWT secret in production")
	}

	cfg.Auth.JWTSecret = "real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_ValidateFillsChartDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Chart = ChartConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Chart.MaxPoints != 150 || cfg.Chart.EventThreshold != 2.0 || cfg.Chart.DefaultViewport != 900 {
		t.Errorf("chart defaults not applied: %+v", cfg.Chart)
	}
}

func TestChartConfig_GetLocation(t *testing.T) {
	c := ChartConfig{}
	if c.GetLocation() != time.UTC {
		t.Error("empty location should resolve to UTC")
	}
	c.Location = "Not/AZone"
	if c.GetLocation() != time.UTC {
		t.Error("invalid location should resolve to UTC")
	}
}

func TestPocketBaseConfig_GetTimeout(t *testing.T) {
	c := PocketBaseConfig{Timeout: "5s"}
	if c.GetTimeout() != 5*time.Second {
		t.Errorf("GetTimeout = %v, want 5s", c.GetTimeout())
	}
	c.Timeout = "bogus"
	if c.GetTimeout() != 30*time.Second {
		t.Errorf("GetTimeout = %v, want 30s fallback", c.GetTimeout())
	}
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if IsFresh(time.Time{}, now, time.Hour) {
		t.Error("zero time should never be fresh")
	}
	if !IsFresh(now.Add(-30*time.Minute), now, time.Hour) {
		t.Error("30m old should be fresh for 1h ttl")
	}
	if IsFresh(now.Add(-2*time.Hour), now, time.Hour) {
		t.Error("2h old should be stale for 1h ttl")
	}
}
