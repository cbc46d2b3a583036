package tracer

import (
	"context"
	"log"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const serviceName = "gymflow-be"

// InitTracer wires the OTLP HTTP exporter. Tracing stays off unless OTEL_ENABLED=true; the
// returned shutdown func is always safe to call.
func InitTracer(environment string) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if os.Getenv("OTEL_ENABLED") != "true" {
		log.Println("OpenTelemetry tracing is disabled (set OTEL_ENABLED=true to enable)")
		return noop
	}

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4318"
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Printf("[WARN] Failed to create OTLP exporter: %v (tracing disabled)", err)
		return noop
	}

	// OTEL_SAMPLE_RATIO in (0,1]; anything unparsable samples everything.
	ratio := 1.0
	if v, err := strconv.ParseFloat(os.Getenv("OTEL_SAMPLE_RATIO"), 64); err == nil && v > 0 && v <= 1 {
		ratio = v
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String(environment),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Printf("OpenTelemetry tracer initialized (endpoint: %s, ratio: %.2f)", endpoint, ratio)

	return tp.Shutdown
}
