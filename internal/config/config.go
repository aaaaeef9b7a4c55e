package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Sync      SyncConfig      `yaml:"sync"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"            env-default:"true"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret           string        `yaml:"jwt_secret"            env:"AUTH_JWT_SECRET"            env-required:"true"`
	JWTIssuer           string        `yaml:"jwt_issuer"            env:"AUTH_JWT_ISSUER"            env-default:"subtally"`
	AccessTokenTTL      time.Duration `yaml:"access_token_ttl"      env:"AUTH_ACCESS_TOKEN_TTL"      env-default:"15m"`
	RefreshTokenTTL     time.Duration `yaml:"refresh_token_ttl"     env:"AUTH_REFRESH_TOKEN_TTL"     env-default:"720h"`
	PasswordHashCost    int           `yaml:"password_hash_cost"    env:"AUTH_PASSWORD_HASH_COST"    env-default:"10"`
	RequireConfirmation bool          `yaml:"require_confirmation"  env:"AUTH_REQUIRE_CONFIRMATION"  env-default:"false"`
}

// SyncConfig holds settings for the cron-facing sync-renewals endpoint.
type SyncConfig struct {
	CronSecret string `yaml:"cron_secret" env:"SYNC_CRON_SECRET"`
	WindowDays int    `yaml:"window_days" env:"SYNC_WINDOW_DAYS" env-default:"7"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds request rate-limit settings for auth endpoints.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"  env:"RATE_LIMIT_ENABLED"  env-default:"true"`
	RPS     int  `yaml:"rps"      env:"RATE_LIMIT_RPS"      env-default:"10"`
	Burst   int  `yaml:"burst"    env:"RATE_LIMIT_BURST"    env-default:"20"`
}
