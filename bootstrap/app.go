package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/observability"
	"github.com/flumehq/flume/util"
	"github.com/flumehq/flume/version"
)

// App is the application shell for pipeline programs. The type
// parameter C is the config type, which must satisfy the Config
// interface; any struct embedding config.ServiceConfig satisfies it.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	err = app.Run(ctx, func(ctx context.Context) error {
//	    _, err := app.RunPipeline(ctx, registry, def)
//	    return err
//	})
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Metrics *observability.Metrics
	Summary *Summary

	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider

	gracefulTimeout time.Duration
	noSignals       bool

	onStart []Hook
	onStop  []Hook
}

// NewApp creates an application instance from a typed config.
// It applies defaults, validates the config, initializes the logger,
// and brings up the optional telemetry providers.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	ver := util.Coalesce(base.Version, version.GetVersionInfo().Version)

	app := &App[C]{
		Name:            base.Name,
		Version:         ver,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	app.noSignals = o.noSignals

	// A supplied logger wins; otherwise the Logging section decides.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if o.meterConfig != nil {
		mp, err := observability.InitMeter(context.Background(), o.meterConfig)
		if err != nil {
			return nil, fmt.Errorf("meter init: %w", err)
		}
		app.meterProvider = mp

		metrics, err := observability.NewMetrics(observability.Meter(base.Name))
		if err != nil {
			return nil, fmt.Errorf("metric instruments: %w", err)
		}
		app.Metrics = metrics
	}
	if o.tracerConfig != nil {
		tp, err := observability.InitTracer(context.Background(), o.tracerConfig)
		if err != nil {
			return nil, fmt.Errorf("tracer init: %w", err)
		}
		app.tracerProvider = tp
	}

	app.Summary = NewSummary(base.Name, ver)

	app.Logger.Info("Application initialized", map[string]interface{}{
		"name":        app.Name,
		"version":     app.Version,
		"environment": base.Environment,
	})

	return app, nil
}

// Run executes a finite task with the full application lifecycle:
// OnStart hooks, the task under a signal-aware context, OnStop hooks,
// telemetry shutdown, and the closing run summary. SIGINT and SIGTERM
// cancel the task context. The task error wins over shutdown errors.
func (a *App[C]) Run(ctx context.Context, task func(ctx context.Context) error) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook: %w", err)
	}
	a.Summary.SetStartupDuration(time.Since(start))

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !a.noSignals {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case sig := <-sigCh:
				a.Logger.Info("Received shutdown signal", map[string]interface{}{
					"signal": sig.String(),
				})
				cancel()
			case <-taskCtx.Done():
			}
		}()
	}

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		taskErr = stopErr
	}

	a.Summary.Display(os.Stdout)
	return taskErr
}

// stop runs OnStop hooks and shuts down the telemetry providers within
// the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	// Run OnStop hooks before flushing telemetry so their spans and
	// metrics still get exported.
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.Logger.Error("Tracer shutdown error", map[string]interface{}{
				"error": err.Error(),
			})
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
	}
	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(ctx); err != nil {
			a.Logger.Error("Meter shutdown error", map[string]interface{}{
				"error": err.Error(),
			})
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
