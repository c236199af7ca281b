package redis

import (
	"fmt"
	"time"
)

// Config holds connection settings for the shared client. Stage params decode
// into it, so duration fields are strings ("5s", "512ms") rather than
// time.Duration.
type Config struct {
	// Addr is the server address as host:port.
	Addr string `mapstructure:"addr"`

	// Password authenticates against servers with requirepass set.
	Password string `mapstructure:"password"`

	// DB selects the logical database.
	DB int `mapstructure:"db"`

	// PoolSize caps open socket connections. A pipeline run pulls items
	// one at a time, so the default of 10 is generous already.
	PoolSize int `mapstructure:"pool_size"`

	// MinIdleConns keeps warm connections for the next run.
	MinIdleConns int `mapstructure:"min_idle_conns"`

	// MaxRetries bounds command retries inside the driver (0 means 3).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff and MaxRetryBackoff bound the driver's retry backoff.
	MinRetryBackoff string `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff string `mapstructure:"max_retry_backoff"`

	// DialTimeout bounds new-connection establishment.
	DialTimeout string `mapstructure:"dial_timeout"`

	// ReadTimeout and WriteTimeout bound socket reads and writes. Sources
	// block on LPop for up to ReadTimeout per pull.
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`

	// ConnMaxIdleTime closes connections idle longer than this.
	ConnMaxIdleTime string `mapstructure:"idle_timeout"`

	// PoolTimeout bounds the wait for a free connection from the pool.
	PoolTimeout string `mapstructure:"pool_timeout"`

	// ConnMaxLifetime retires connections after this age. 0 means no limit.
	ConnMaxLifetime string `mapstructure:"max_conn_age"`
}

// ApplyDefaults fills zero-valued fields with working defaults.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.MinRetryBackoff == "" {
		c.MinRetryBackoff = "8ms"
	}
	if c.MaxRetryBackoff == "" {
		c.MaxRetryBackoff = "512ms"
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks required fields and that the mandatory durations parse.
// Optional durations are checked lazily when the client applies them.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be > 0")
	}
	for _, d := range []struct{ name, value string }{
		{"dial_timeout", c.DialTimeout},
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
	}
	return nil
}
