package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/flumehq/flume/logger"
)

// MeterConfig configures metric export over OTLP/HTTP.
type MeterConfig struct {
	// ServiceName labels metrics with the emitting service.
	ServiceName string
	// ServiceVersion labels metrics with the service version.
	ServiceVersion string
	// Environment tags the deployment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP collector as host:port.
	Endpoint string
	// Insecure exports over plain HTTP, for local collectors.
	Insecure bool
	// Interval is the periodic export interval.
	Interval time.Duration
}

// DefaultMeterConfig targets a local collector with a 15s export interval.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a meter provider as the OTel global, so the metrics
// decorator's instruments start exporting. The caller owns shutdown; the
// app shell defers it on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider. Before
// InitMeter runs its instruments are noops, mirroring Tracer.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics bundles the instruments the pipeline decorators record into:
// per-stage operations and durations, item throughput, and errors.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	itemTotal         metric.Int64Counter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates the instrument set on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter("operation.total",
		metric.WithDescription("Total number of operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("operation.duration",
		metric.WithDescription("Duration of operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}

	itemTotal, err := meter.Int64Counter("item.total",
		metric.WithDescription("Total items produced by pipeline stages"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		itemTotal:         itemTotal,
		errorTotal:        errorTotal,
	}, nil
}

// RecordOperation counts one operation against a stage and records its
// duration. Status is "success" or "error".
func (m *Metrics) RecordOperation(ctx context.Context, stage, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.operationTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("operation", operation),
	))
}

// RecordItems counts items a stage produced.
func (m *Metrics) RecordItems(ctx context.Context, stage string, count int64) {
	m.itemTotal.Add(ctx, count, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// RecordError counts one error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
