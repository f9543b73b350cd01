// Package telemetry configures OpenTelemetry tracing for the server and its
// outbound HTTP calls.
package telemetry

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by Setup.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the global propagator and, unless exporter is "none" or
// empty, a tracer provider exporting spans for serviceName.
func Setup(serviceName, exporter string) (ShutdownFunc, error) {
	return setup(serviceName, exporter, os.Stderr)
}

func setup(serviceName, exporter string, w io.Writer) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	switch exporter {
	case "", ExporterNone:
		return func(context.Context) error { return nil }, nil
	case ExporterStdout:
	default:
		return nil, errors.Errorf("unknown trace exporter %q", exporter)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, errors.Wrap(err, "create stdout exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// Middleware traces every request except those for excluded paths.
func Middleware(serviceName string, excluded ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(excluded))
	for _, p := range excluded {
		skip[p] = true
	}

	opts := []otelhttp.Option{
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !skip[r.URL.Path]
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}

	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName, opts...)
	}
}

// NewHTTPClient returns a client that propagates trace context downstream.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
