// Package telemetry sets up OpenTelemetry tracing and Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"hobbyshop/internal/config"
)

// Providers holds the active telemetry components.
type Providers struct {
	// MetricsHandler serves the Prometheus registry; nil when metrics are off.
	MetricsHandler http.Handler

	shutdown func(context.Context) error
}

// Meter returns a meter from the global provider. It is a no-op meter when
// metrics are disabled.
func (p *Providers) Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Shutdown flushes and stops every provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	return p.shutdown(ctx)
}

// Init sets up tracing and metrics according to cfg and installs them as
// the global providers.
func Init(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	if !cfg.TracesEnabled && !cfg.MetricsEnabled {
		return &Providers{}, nil
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	var shutdowns []func(context.Context) error
	var metricsHandler http.Handler

	if cfg.TracesEnabled {
		options := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		}
		if cfg.OTLPInsecure {
			options = append(options, otlptracehttp.WithInsecure())
		}
		traceExporter, err := otlptracehttp.New(ctx, options...)
		if err != nil {
			return nil, err
		}
		sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRatio))
		traceProvider := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
		)
		otel.SetTracerProvider(traceProvider)
		shutdowns = append(shutdowns, traceProvider.Shutdown)
	}

	if cfg.MetricsEnabled {
		registry := prom.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, errors.Join(err, shutdownAll(ctx, shutdowns))
		}
		metricProvider := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(metricExporter),
		)
		otel.SetMeterProvider(metricProvider)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		shutdowns = append(shutdowns, metricProvider.Shutdown)
	}

	return &Providers{
		MetricsHandler: metricsHandler,
		shutdown: func(ctx context.Context) error {
			return shutdownAll(ctx, shutdowns)
		},
	}, nil
}

func shutdownAll(ctx context.Context, shutdowns []func(context.Context) error) error {
	var joined error
	for _, shutdown := range shutdowns {
		if err := shutdown(ctx); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}
