package sweep

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds expiration sweep scheduling parameters. The sweep runs daily
// at Hour:Minute, and optionally once at startup.
type Config struct {
	Enabled      *bool `toml:"enabled"`
	Hour         *int  `toml:"hour"`
	Minute       *int  `toml:"minute"`
	RunOnStartup *bool `toml:"run_on_startup"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled      string
	Hour         string
	Minute       string
	RunOnStartup string
}

// IsEnabled reports whether the scheduled sweep is active. Defaults to true.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// StartupRun reports whether a sweep runs once at startup. Defaults to true.
func (c *Config) StartupRun() bool {
	return c.RunOnStartup == nil || *c.RunOnStartup
}

// HourValue returns the configured hour, defaulting to 3. Midnight is a
// valid configured value, distinct from unset.
func (c *Config) HourValue() int {
	if c.Hour == nil {
		return 3
	}
	return *c.Hour
}

// MinuteValue returns the configured minute, defaulting to 0.
func (c *Config) MinuteValue() int {
	if c.Minute == nil {
		return 0
	}
	return *c.Minute
}

// CronSpec returns the daily schedule in cron syntax.
func (c *Config) CronSpec() string {
	return fmt.Sprintf("%d %d * * *", c.MinuteValue(), c.HourValue())
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites set fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Hour != nil {
		c.Hour = overlay.Hour
	}
	if overlay.Minute != nil {
		c.Minute = overlay.Minute
	}
	if overlay.RunOnStartup != nil {
		c.RunOnStartup = overlay.RunOnStartup
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
	if env.Hour != "" {
		if v := os.Getenv(env.Hour); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Hour = &n
			}
		}
	}
	if env.Minute != "" {
		if v := os.Getenv(env.Minute); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Minute = &n
			}
		}
	}
	if env.RunOnStartup != "" {
		if v := os.Getenv(env.RunOnStartup); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.RunOnStartup = &b
			}
		}
	}
}

func (c *Config) validate() error {
	if h := c.HourValue(); h < 0 || h > 23 {
		return fmt.Errorf("invalid hour: %d", h)
	}
	if m := c.MinuteValue(); m < 0 || m > 59 {
		return fmt.Errorf("invalid minute: %d", m)
	}
	return nil
}
