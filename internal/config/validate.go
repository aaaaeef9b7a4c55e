package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive (got %v)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must exceed access_token_ttl (got %v <= %v)",
			c.Auth.RefreshTokenTTL, c.Auth.AccessTokenTTL)
	}

	if c.Sync.WindowDays <= 0 {
		return fmt.Errorf("sync.window_days must be positive (got %d)", c.Sync.WindowDays)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate_limit.rps must be positive (got %d)", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst < c.RateLimit.RPS {
			return fmt.Errorf("rate_limit.burst must be >= rps (got %d < %d)",
				c.RateLimit.Burst, c.RateLimit.RPS)
		}
	}

	return nil
}
