package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/resilience"
)

// SinkSummary is the result value a Kafka sink finishes with.
type SinkSummary struct {
	// Written counts messages acknowledged by the broker.
	Written int
	// Err is the write or upstream failure that ended the sink, if any.
	Err error
}

// Sink returns a sink stage that writes every upstream item to Kafka and
// finishes with a SinkSummary. Items are coerced to Messages: Message
// values pass through, []byte and string become raw payloads, a []any
// slice is written as one batch (compose with a Batch stage upstream to
// amortize produce requests), and anything else is marshalled as JSON.
//
// Writes are retried with exponential backoff before the sink gives up
// and reports the failure in its summary. The writer is closed by Run's
// cleanup pass.
func Sink(ctx context.Context, cfg Config, log *logger.Logger) *conduit.Pipe {
	return conduit.DeferSink(func() conduit.Step {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return &conduit.Done{Result: SinkSummary{Err: fmt.Errorf("kafka sink config: %w", err)}}
		}
		transport, err := CreateTransport(&cfg)
		if err != nil {
			return &conduit.Done{Result: SinkSummary{Err: fmt.Errorf("kafka sink transport: %w", err)}}
		}

		slog := log.WithComponent("kafka.sink")
		writer := &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Transport:    transport,
			Balancer:     &kafkago.LeastBytes{},
			BatchSize:    cfg.BatchSize,
			BatchTimeout: ParseDuration(cfg.BatchTimeout),
			RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
			Compression:  ResolveCompression(cfg.Compression),
			WriteTimeout: ParseDuration(cfg.WriteTimeout),
			ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
				slog.Error("writer: "+msg, map[string]interface{}{
					"args": fmt.Sprintf("%v", args),
				})
			}),
		}

		slog.Info("Kafka sink ready", map[string]interface{}{
			"brokers":     cfg.Brokers,
			"topic":       cfg.Topic,
			"compression": cfg.Compression,
			"batch_size":  cfg.BatchSize,
		})

		retry := resilience.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Retries
		retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Kafka write retrying", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
				"backoff": backoff.String(),
			})
		}

		snk := &messageSink{ctx: ctx, writer: writer, cfg: &cfg, log: slog, retry: retry}
		return &conduit.RegisterCleanup{
			Action: snk.close,
			Next:   snk.accept,
		}
	})
}

type messageSink struct {
	ctx     context.Context
	writer  *kafkago.Writer
	cfg     *Config
	log     *logger.Logger
	retry   resilience.RetryConfig
	written int
}

func (s *messageSink) accept() conduit.Step {
	return &conduit.NeedInput{
		OnValue: s.write,
		OnDone:  s.finish,
	}
}

func (s *messageSink) write(item interface{}) conduit.Step {
	batch, err := s.toBatch(item)
	if err != nil {
		return &conduit.Done{Result: SinkSummary{Written: s.written, Err: err}}
	}
	if len(batch) == 0 {
		return s.accept()
	}

	err = resilience.RetryFunc(s.ctx, s.retry, func() error {
		return s.writer.WriteMessages(s.ctx, batch...)
	})
	if err != nil {
		s.log.Error("Kafka write failed", map[string]interface{}{
			"error":   err.Error(),
			"topic":   s.cfg.Topic,
			"written": s.written,
		})
		return &conduit.Done{Result: SinkSummary{
			Written: s.written,
			Err:     fmt.Errorf("write after %d attempts: %w", s.cfg.Retries, err),
		}}
	}

	s.written += len(batch)
	return s.accept()
}

// toBatch converts one upstream item into the kafka-go messages to write
// in a single call. A []any item (as produced by a Batch stage) maps to
// one message per element.
func (s *messageSink) toBatch(item interface{}) ([]kafkago.Message, error) {
	items, ok := item.([]interface{})
	if !ok {
		items = []interface{}{item}
	}
	batch := make([]kafkago.Message, 0, len(items))
	for _, it := range items {
		msg, err := toMessage(s.cfg.Topic, it)
		if err != nil {
			return nil, err
		}
		batch = append(batch, msg.ToKafkaMessage())
	}
	return batch, nil
}

// finish folds the upstream result into the summary so source failures
// are not lost behind a clean write count.
func (s *messageSink) finish(result interface{}) conduit.Step {
	sum := SinkSummary{Written: s.written}
	if err := conduit.ResultError(result); err != nil {
		sum.Err = err
	}
	return &conduit.Done{Result: sum}
}

func (s *messageSink) close() {
	if err := s.writer.Close(); err != nil {
		s.log.Error("Kafka writer close failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.log.Info("Kafka sink closed", map[string]interface{}{"written": s.written})
}
