package observability

import (
	"context"
	"errors"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	stepCounter    otelmetric.Int64Counter
	stepDuration   otelmetric.Float64Histogram
}

type options struct {
	jaegerEndpoint string
	registerer     promclient.Registerer
	spanExporter   sdktrace.SpanExporter
}

type Option func(*options)

// WithJaeger batches spans to a Jaeger collector, e.g. http://localhost:14268/api/traces.
func WithJaeger(endpoint string) Option {
	return func(o *options) { o.jaegerEndpoint = endpoint }
}

// WithRegisterer registers the prometheus exporter somewhere other than the default registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanExporter exports spans synchronously. Used by tests.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.spanExporter = exp }
}

func New(serviceName string, opts ...Option) *Observability {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	obs := &Observability{}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if o.spanExporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithSyncer(o.spanExporter))
	}
	if o.jaegerEndpoint != "" {
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(o.jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
		}
	}
	obs.tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(obs.tracerProvider)
	obs.tracer = obs.tracerProvider.Tracer(serviceName)

	var promOpts []prometheus.Option
	if o.registerer != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return obs
	}

	obs.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(obs.meterProvider)

	meter := obs.meterProvider.Meter(serviceName)

	obs.stepCounter, _ = meter.Int64Counter(
		"provisioning_steps",
		otelmetric.WithDescription("Number of provisioning steps run"),
	)

	obs.stepDuration, _ = meter.Float64Histogram(
		"provisioning_step_duration",
		otelmetric.WithDescription("Provisioning step duration"),
		otelmetric.WithUnit("ms"),
	)

	return obs
}

func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name)
}

func (o *Observability) RecordStep(ctx context.Context, step, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	)
	if o.stepCounter != nil {
		o.stepCounter.Add(ctx, 1, attrs)
	}
	if o.stepDuration != nil {
		o.stepDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
