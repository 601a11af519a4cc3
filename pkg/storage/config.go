package storage

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported storage providers.
const (
	ProviderAzure = "azure"
	ProviderMinio = "minio"
)

// Config holds blob storage connection parameters. Provider selects the
// backend: "azure" uses ConnectionString, "minio" uses the endpoint and
// key fields.
type Config struct {
	Provider         string `toml:"provider"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	Endpoint         string `toml:"endpoint"`
	AccessKey        string `toml:"access_key"`
	SecretKey        string `toml:"secret_key"`
	UseSSL           bool   `toml:"use_ssl"`
	SignedURLTTL     string `toml:"signed_url_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	ContainerName    string
	ConnectionString string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	UseSSL           string
	SignedURLTTL     string
}

// SignedURLTTLDuration returns SignedURLTTL as a time.Duration.
func (c *Config) SignedURLTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SignedURLTTL)
	return d
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.AccessKey != "" {
		c.AccessKey = overlay.AccessKey
	}
	if overlay.SecretKey != "" {
		c.SecretKey = overlay.SecretKey
	}
	if overlay.UseSSL {
		c.UseSSL = true
	}
	if overlay.SignedURLTTL != "" {
		c.SignedURLTTL = overlay.SignedURLTTL
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.ContainerName == "" {
		c.ContainerName = "documents"
	}
	if c.SignedURLTTL == "" {
		c.SignedURLTTL = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.AccessKey != "" {
		if v := os.Getenv(env.AccessKey); v != "" {
			c.AccessKey = v
		}
	}
	if env.SecretKey != "" {
		if v := os.Getenv(env.SecretKey); v != "" {
			c.SecretKey = v
		}
	}
	if env.UseSSL != "" {
		if v := os.Getenv(env.UseSSL); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.UseSSL = b
			}
		}
	}
	if env.SignedURLTTL != "" {
		if v := os.Getenv(env.SignedURLTTL); v != "" {
			c.SignedURLTTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	switch c.Provider {
	case ProviderAzure:
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required")
		}
	case ProviderMinio:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return fmt.Errorf("access_key and secret_key required")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}
	if _, err := time.ParseDuration(c.SignedURLTTL); err != nil {
		return fmt.Errorf("invalid signed_url_ttl: %w", err)
	}
	return nil
}
