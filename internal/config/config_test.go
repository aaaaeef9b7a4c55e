package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  access_token_ttl: "10m"
  refresh_token_ttl: "168h"
  password_hash_cost: 8

sync:
  cron_secret: "cron-secret"
  window_days: 14

log:
  level: "debug"
  format: "text"

rate_limit:
  enabled: true
  rps: 5
  burst: 10
`

func validConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			JWTSecret:        "this-is-a-very-long-jwt-secret-for-testing-32+",
			JWTIssuer:        "subtally",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  720 * time.Hour,
			PasswordHashCost: 10,
		},
		Sync: SyncConfig{
			WindowDays: 7,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     10,
			Burst:   20,
		},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.AccessTokenTTL != 10*time.Minute {
		t.Errorf("auth.access_token_ttl = %v, want 10m", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.PasswordHashCost != 8 {
		t.Errorf("auth.password_hash_cost = %d, want 8", cfg.Auth.PasswordHashCost)
	}

	// Sync
	if cfg.Sync.CronSecret != "cron-secret" {
		t.Errorf("sync.cron_secret = %q", cfg.Sync.CronSecret)
	}
	if cfg.Sync.WindowDays != 14 {
		t.Errorf("sync.window_days = %d, want 14", cfg.Sync.WindowDays)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// Rate limit
	if cfg.RateLimit.RPS != 5 {
		t.Errorf("rate_limit.rps = %d, want 5", cfg.RateLimit.RPS)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Sync.WindowDays != 7 {
		t.Errorf("sync.window_days = %d, want 7 (default)", cfg.Sync.WindowDays)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}
}

func TestValidate_HashCostOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.PasswordHashCost = 99

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range hash cost")
	}
}

func TestValidate_TokenTTLOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.RefreshTokenTTL = cfg.Auth.AccessTokenTTL

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when refresh TTL does not exceed access TTL")
	}
}

func TestValidate_AccessTTLNonPositive(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.AccessTokenTTL = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive access TTL")
	}
}

func TestValidate_WindowDaysNonPositive(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.WindowDays = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive sync window")
	}
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.RPS = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rps with rate limiting enabled")
	}

	cfg = validConfig()
	cfg.RateLimit.Burst = cfg.RateLimit.RPS - 1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for burst below rps")
	}

	// Disabled limiter skips the rps/burst checks.
	cfg = validConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.RPS = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with limiter disabled: %v", err)
	}
}
