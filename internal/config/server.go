package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "QUILL_SERVER_HOST"
	EnvServerPort              = "QUILL_SERVER_PORT"
	EnvServerReadTimeout       = "QUILL_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "QUILL_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "QUILL_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "QUILL_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "QUILL_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP server parameters. WriteTimeout is generous by
// default because generation requests wait on the provider.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, d := range c.durations() {
		if v := *d.overlay(overlay); v != "" {
			*d.field = v
		}
	}
}

// serverDuration ties a duration field to its config key, environment
// variable, and default.
type serverDuration struct {
	key     string
	env     string
	def     string
	field   *string
	overlay func(*ServerConfig) *string
}

func (c *ServerConfig) durations() []serverDuration {
	return []serverDuration{
		{"read_timeout", EnvServerReadTimeout, "30s", &c.ReadTimeout,
			func(o *ServerConfig) *string { return &o.ReadTimeout }},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout,
			func(o *ServerConfig) *string { return &o.ReadHeaderTimeout }},
		{"write_timeout", EnvServerWriteTimeout, "5m", &c.WriteTimeout,
			func(o *ServerConfig) *string { return &o.WriteTimeout }},
		{"idle_timeout", EnvServerIdleTimeout, "2m", &c.IdleTimeout,
			func(o *ServerConfig) *string { return &o.IdleTimeout }},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout,
			func(o *ServerConfig) *string { return &o.ShutdownTimeout }},
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, d := range c.durations() {
		if *d.field == "" {
			*d.field = d.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, d := range c.durations() {
		if v := os.Getenv(d.env); v != "" {
			*d.field = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, d := range c.durations() {
		v, err := time.ParseDuration(*d.field)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if v < 0 {
			return fmt.Errorf("invalid %s: must not be negative", d.key)
		}
	}
	return nil
}

// mustDuration parses a duration that validate has already accepted.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
