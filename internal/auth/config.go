package auth

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds admin authentication parameters. When Enabled is false the
// admin UI is open, which is only suitable for local development.
type Config struct {
	Enabled       *bool  `toml:"enabled"`
	Issuer        string `toml:"issuer"`
	ClientID      string `toml:"client_id"`
	ClientSecret  string `toml:"client_secret"`
	RedirectURL   string `toml:"redirect_url"`
	SessionName   string `toml:"session_name"`
	SessionSecret string `toml:"-"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled       string
	Issuer        string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	SessionName   string
	SessionSecret string
}

// IsEnabled reports whether the admin OIDC gate is active. Defaults to false.
func (c *Config) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.ClientSecret != "" {
		c.ClientSecret = overlay.ClientSecret
	}
	if overlay.RedirectURL != "" {
		c.RedirectURL = overlay.RedirectURL
	}
	if overlay.SessionName != "" {
		c.SessionName = overlay.SessionName
	}
}

func (c *Config) loadDefaults() {
	if c.SessionName == "" {
		c.SessionName = "veridoc_session"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = &b
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.ClientSecret != "" {
		if v := os.Getenv(env.ClientSecret); v != "" {
			c.ClientSecret = v
		}
	}
	if env.RedirectURL != "" {
		if v := os.Getenv(env.RedirectURL); v != "" {
			c.RedirectURL = v
		}
	}
	if env.SessionName != "" {
		if v := os.Getenv(env.SessionName); v != "" {
			c.SessionName = v
		}
	}
	if env.SessionSecret != "" {
		if v := os.Getenv(env.SessionSecret); v != "" {
			c.SessionSecret = v
		}
	}
}

func (c *Config) validate() error {
	if !c.IsEnabled() {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("redirect_url required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret required")
	}
	return nil
}
