package kafka

import (
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// CreateTransport builds a kafka.Transport with optional TLS/SASL for writers.
func CreateTransport(cfg *Config) (*kafka.Transport, error) {
	transport := &kafka.Transport{
		IdleTimeout: ParseDuration(cfg.IdleTimeout),
		MetadataTTL: ParseDuration(cfg.MetadataTTL),
	}

	tc, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("TLS config: %w", err)
	}
	transport.TLS = tc // nil when TLS is not configured

	if cfg.EnableSASL {
		m, err := buildSASLMechanism(cfg)
		if err != nil {
			return nil, fmt.Errorf("SASL config: %w", err)
		}
		transport.SASL = m
	}

	return transport, nil
}

// CreateDialer builds a kafka.Dialer with optional TLS/SASL for readers.
func CreateDialer(cfg *Config) (*kafka.Dialer, error) {
	dialer := &kafka.Dialer{
		Timeout:   ParseDuration(cfg.DialTimeout),
		DualStack: true,
	}

	tc, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("TLS config: %w", err)
	}
	dialer.TLS = tc

	if cfg.EnableSASL {
		m, err := buildSASLMechanism(cfg)
		if err != nil {
			return nil, fmt.Errorf("SASL config: %w", err)
		}
		dialer.SASLMechanism = m
	}

	return dialer, nil
}

func buildSASLMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

// ResolveCompression turns the configured compression name into the
// kafka-go codec, falling back to snappy for unknown names.
func ResolveCompression(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "snappy":
		return kafka.Snappy
	case "none":
		return 0
	default:
		return kafka.Snappy
	}
}

// ResolveStartOffset maps a start_offset name to a kafka-go offset constant.
func ResolveStartOffset(name string) int64 {
	if name == "last" {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}
