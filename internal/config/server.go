package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "VERUM_SERVER_HOST"
	EnvServerPort              = "VERUM_SERVER_PORT"
	EnvServerReadTimeout       = "VERUM_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "VERUM_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "VERUM_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "VERUM_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "VERUM_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Timeouts are Go duration
// strings. Evidence uploads stream through the read timeout, so it bounds
// the slowest accepted upload.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// serverTimeout binds one timeout field to its name, env var, and default.
type serverTimeout struct {
	name  string
	env   string
	def   string
	value *string
}

func (c *ServerConfig) timeouts() []serverTimeout {
	return []serverTimeout{
		{"read_timeout", EnvServerReadTimeout, "5m", &c.ReadTimeout},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout},
		{"write_timeout", EnvServerWriteTimeout, "5m", &c.WriteTimeout},
		{"idle_timeout", EnvServerIdleTimeout, "2m", &c.IdleTimeout},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout},
	}
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration { return duration(c.ReadTimeout) }

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return duration(c.ReadHeaderTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return duration(c.WriteTimeout) }

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration { return duration(c.IdleTimeout) }

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}

	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	for _, t := range c.timeouts() {
		if *t.value == "" {
			*t.value = t.def
		}
		if v := os.Getenv(t.env); v != "" {
			*t.value = v
		}
		d, err := time.ParseDuration(*t.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", t.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", t.name)
		}
	}

	if c.ReadHeaderTimeoutDuration() > c.ReadTimeoutDuration() {
		return fmt.Errorf("read_header_timeout cannot exceed read_timeout")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	src := overlay.timeouts()
	for i, t := range c.timeouts() {
		if v := *src[i].value; v != "" {
			*t.value = v
		}
	}
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
