package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the otel meter and tracer providers for the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	upstreamCalls  otelmetric.Int64Counter
	upstreamTiming otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{tracerProvider: tracerProvider}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	upstreamCalls, _ := meter.Int64Counter(
		"upstream.calls",
		otelmetric.WithDescription("Number of third-party provider calls"),
	)

	upstreamTiming, _ := meter.Float64Histogram(
		"upstream.duration",
		otelmetric.WithDescription("Third-party provider call duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		meter:          meter,
		upstreamCalls:  upstreamCalls,
		upstreamTiming: upstreamTiming,
	}
}

// RecordUpstreamCall records one provider call with its outcome and latency.
// Safe on a nil receiver so clients built without observability keep working.
func (o *Observability) RecordUpstreamCall(ctx context.Context, provider, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	)
	if o.upstreamCalls != nil {
		o.upstreamCalls.Add(ctx, 1, attrs)
	}
	if o.upstreamTiming != nil {
		o.upstreamTiming.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// TraceID returns the hex trace id of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
