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

	"github.com/kbukum/transcribe-mcp/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// Shut it down on exit to flush pending metrics.
func InitMeter(ctx context.Context, cfg Config, res Resource, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	log.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for tool calls and provider
// operations.
type Metrics struct {
	toolTotal         metric.Int64Counter
	toolDuration      metric.Float64Histogram
	toolActive        metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	toolTotal, err := meter.Int64Counter("tool.calls",
		metric.WithDescription("Tool calls by tool and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tool.calls counter: %w", err)
	}

	toolDuration, err := meter.Float64Histogram("tool.duration",
		metric.WithDescription("Duration of tool calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tool.duration histogram: %w", err)
	}

	toolActive, err := meter.Int64UpDownCounter("tool.active",
		metric.WithDescription("Tool calls in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tool.active gauge: %w", err)
	}

	operationTotal, err := meter.Int64Counter("provider.operations",
		metric.WithDescription("Provider operations by provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.operations counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("provider.duration",
		metric.WithDescription("Duration of provider operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("errors",
		metric.WithDescription("Errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	return &Metrics{
		toolTotal:         toolTotal,
		toolDuration:      toolDuration,
		toolActive:        toolActive,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		errorTotal:        errorTotal,
	}, nil
}

// RecordToolStart increments the in-flight tool call count.
func (m *Metrics) RecordToolStart(ctx context.Context, tool string) {
	m.toolActive.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", tool)))
}

// RecordToolEnd decrements in-flight calls and records the finished call.
func (m *Metrics) RecordToolEnd(ctx context.Context, tool, status string, duration time.Duration) {
	m.toolActive.Add(ctx, -1, metric.WithAttributes(attribute.String("tool", tool)))
	m.toolTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("tool", tool)))
}

// RecordOperation records one provider operation.
func (m *Metrics) RecordOperation(ctx context.Context, provider, operation, status string, duration time.Duration) {
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
