package export

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds export defaults and retention settings.
type Config struct {
	Endpoint  string `toml:"endpoint"`
	Filename  string `toml:"filename"`
	Prefix    string `toml:"prefix"`
	Retention string `toml:"retention"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint  string
	Filename  string
	Prefix    string
	Retention string
}

// RetentionDuration returns Retention as a time.Duration.
func (c *Config) RetentionDuration() time.Duration {
	d, _ := time.ParseDuration(c.Retention)
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
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Filename != "" {
		c.Filename = overlay.Filename
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.Retention != "" {
		c.Retention = overlay.Retention
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Filename == "" {
		c.Filename = DefaultFilename
	}
	if c.Prefix == "" {
		c.Prefix = "exports"
	}
	if c.Retention == "" {
		c.Retention = "720h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Filename != "" {
		if v := os.Getenv(env.Filename); v != "" {
			c.Filename = v
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.Retention != "" {
		if v := os.Getenv(env.Retention); v != "" {
			c.Retention = v
		}
	}
}

func (c *Config) validate() error {
	if err := ValidateEndpoint(c.Endpoint); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if _, err := CleanFilename(c.Filename); err != nil {
		return fmt.Errorf("filename: %w", err)
	}
	if strings.Contains(c.Prefix, "..") {
		return fmt.Errorf("prefix contains invalid path segment: %s", c.Prefix)
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return fmt.Errorf("invalid retention: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	return nil
}
