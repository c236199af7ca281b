package bootstrap

import (
	"time"

	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/observability"
)

// Option adjusts how NewApp assembles the shell. Options carry no type
// parameter, so one set works with every config type.
type Option func(*appOptions)

// appOptions gathers option values until NewApp applies them.
type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	noSignals       bool
	meterConfig     *observability.MeterConfig
	tracerConfig    *observability.TracerConfig
}

// resolveOptions folds the option list into one struct.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger supplies a ready-made logger. Without it, NewApp builds
// one from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout bounds how long shutdown waits for cleanup hooks.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithoutSignals disables SIGINT/SIGTERM handling; the task context is
// canceled only by the caller. Intended for tests and embedding in a
// larger process.
func WithoutSignals() Option {
	return func(o *appOptions) {
		o.noSignals = true
	}
}

// WithMeter enables the OpenTelemetry meter provider and the pipeline
// metric instruments.
func WithMeter(cfg observability.MeterConfig) Option {
	return func(o *appOptions) {
		o.meterConfig = &cfg
	}
}

// WithTracer enables the OpenTelemetry tracer provider; assembled
// stages and pipeline runs get spans.
func WithTracer(cfg observability.TracerConfig) Option {
	return func(o *appOptions) {
		o.tracerConfig = &cfg
	}
}
