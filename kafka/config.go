package kafka

import (
	"fmt"
	"time"

	"github.com/flumehq/flume/security"
)

// Config holds Kafka connection and behavior configuration shared by
// sources and sinks. Duration fields are strings ("5s", "100ms") so the
// struct can be populated directly from YAML or environment config.
type Config struct {
	// Brokers lists broker addresses as host:port.
	Brokers []string `mapstructure:"brokers"`

	// Topic is the topic a source reads from and the default topic a
	// sink writes to when an item does not carry its own.
	Topic string `mapstructure:"topic"`

	// GroupID is the consumer group identifier for sources.
	GroupID string `mapstructure:"group_id"`

	// TLS configures transport security. Leaving it zero-valued
	// disables TLS.
	TLS security.TLSConfig `mapstructure:"tls"`

	// SASL
	EnableSASL    bool   `mapstructure:"enable_sasl"`
	SASLMechanism string `mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`

	// Writer settings
	Compression  string `mapstructure:"compression"` // none, gzip, snappy, lz4, zstd
	Retries      int    `mapstructure:"retries"`
	BatchSize    int    `mapstructure:"batch_size"`
	BatchTimeout string `mapstructure:"batch_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	RequiredAcks int    `mapstructure:"required_acks"`

	// Reader settings
	StartOffset       string `mapstructure:"start_offset"` // first, last
	SessionTimeout    string `mapstructure:"session_timeout"`
	HeartbeatInterval string `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  string `mapstructure:"rebalance_timeout"`

	// Connection settings
	DialTimeout string `mapstructure:"dial_timeout"`
	IdleTimeout string `mapstructure:"idle_timeout"`
	MetadataTTL string `mapstructure:"metadata_ttl"`
}

// ApplyDefaults fills unset fields with values suited to a local
// single-broker setup.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1 // all replicas
	}
	defaultString(&c.Compression, "snappy")
	defaultString(&c.StartOffset, "first")
	defaultString(&c.BatchTimeout, "1s")
	defaultString(&c.WriteTimeout, "10s")
	defaultString(&c.ReadTimeout, "10s")
	defaultString(&c.SessionTimeout, "30s")
	defaultString(&c.HeartbeatInterval, "3s")
	defaultString(&c.RebalanceTimeout, "30s")
	defaultString(&c.DialTimeout, "10s")
	defaultString(&c.IdleTimeout, "30s")
	defaultString(&c.MetadataTTL, "6s")
	if c.EnableSASL && c.SASLMechanism == "" {
		c.SASLMechanism = "PLAIN"
	}
}

func defaultString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// Validate reports the first problem with the config. Every duration
// string must parse, and SASL needs a known mechanism and a username
// when enabled.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	for _, d := range []struct {
		name, val string
	}{
		{"batch_timeout", c.BatchTimeout},
		{"write_timeout", c.WriteTimeout},
		{"read_timeout", c.ReadTimeout},
		{"session_timeout", c.SessionTimeout},
		{"heartbeat_interval", c.HeartbeatInterval},
		{"rebalance_timeout", c.RebalanceTimeout},
		{"dial_timeout", c.DialTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"metadata_ttl", c.MetadataTTL},
	} {
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.val, err)
		}
	}
	switch c.StartOffset {
	case "first", "last":
	default:
		return fmt.Errorf("start_offset must be \"first\" or \"last\", got %q", c.StartOffset)
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	if c.EnableSASL {
		switch c.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("unsupported SASL mechanism: %s", c.SASLMechanism)
		}
		if c.Username == "" {
			return fmt.Errorf("SASL username is required")
		}
	}
	if c.Retries <= 0 {
		return fmt.Errorf("retries must be > 0")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0")
	}
	return nil
}

// ParseDuration converts a duration string that already passed Validate,
// yielding zero for empty or malformed input.
func ParseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
