package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/flumehq/flume/conduit"
	apperrors "github.com/flumehq/flume/errors"
	"github.com/flumehq/flume/logger"
)

// Source returns a source stage that reads one Kafka message per
// downstream pull and emits it as a Message. The reader is created only
// when the pipeline is connected and first asked for input, and is closed
// by Run's cleanup pass no matter how the pipeline ends.
//
// Cancelling ctx ends the stream with a nil result; read failures end it
// with a connection error as the result value.
func Source(ctx context.Context, cfg Config, log *logger.Logger) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return &conduit.Done{Result: fmt.Errorf("kafka source config: %w", err)}
		}
		if cfg.Topic == "" {
			return &conduit.Done{Result: apperrors.MissingField("topic")}
		}
		dialer, err := CreateDialer(&cfg)
		if err != nil {
			return &conduit.Done{Result: fmt.Errorf("kafka source dialer: %w", err)}
		}

		slog := log.WithComponent("kafka.source")
		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:           cfg.Brokers,
			Topic:             cfg.Topic,
			GroupID:           cfg.GroupID,
			Dialer:            dialer,
			StartOffset:       ResolveStartOffset(cfg.StartOffset),
			MinBytes:          1,
			MaxBytes:          10e6,
			SessionTimeout:    ParseDuration(cfg.SessionTimeout),
			HeartbeatInterval: ParseDuration(cfg.HeartbeatInterval),
			RebalanceTimeout:  ParseDuration(cfg.RebalanceTimeout),
			ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
				slog.Error("reader: "+msg, map[string]interface{}{
					"args":    fmt.Sprintf("%v", args),
					"topic":   cfg.Topic,
					"groupID": cfg.GroupID,
				})
			}),
		})

		slog.Info("Kafka source ready", map[string]interface{}{
			"topic":   cfg.Topic,
			"groupID": cfg.GroupID,
			"brokers": cfg.Brokers,
		})

		src := &messageSource{ctx: ctx, reader: reader, log: slog, topic: cfg.Topic}
		return &conduit.RegisterCleanup{
			Action: src.close,
			Next:   src.next,
		}
	})
}

type messageSource struct {
	ctx    context.Context
	reader *kafkago.Reader
	log    *logger.Logger
	topic  string
}

// next performs one blocking read. Downstream demand drives it: the merge
// engine forces this thunk only when a pull actually arrives, so a sink
// that stops early never triggers another read.
func (s *messageSource) next() conduit.Step {
	msg, err := s.reader.ReadMessage(s.ctx)
	if err != nil {
		return s.finish(err)
	}
	return &conduit.HaveOutput{
		Value: FromKafkaMessage(msg),
		Next:  s.next,
	}
}

// finish maps a read error to the stream result. Cancellation and a
// closed reader end the stream cleanly; anything else becomes an
// error-valued result.
func (s *messageSource) finish(err error) conduit.Step {
	if s.ctx.Err() != nil || errors.Is(err, io.EOF) {
		return &conduit.Done{Result: nil}
	}
	s.log.Error("Kafka read failed", map[string]interface{}{
		"error": err.Error(),
		"topic": s.topic,
	})
	return &conduit.Done{Result: apperrors.ConnectionFailed("kafka").WithCause(err)}
}

func (s *messageSource) close() {
	if err := s.reader.Close(); err != nil {
		s.log.Error("Kafka reader close failed", map[string]interface{}{
			"error": err.Error(),
			"topic": s.topic,
		})
		return
	}
	s.log.Info("Kafka source closed", map[string]interface{}{"topic": s.topic})
}
