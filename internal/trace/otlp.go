// Package trace sets up OpenTelemetry span export for API requests.
package trace

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceName is reported when no service name is configured.
const DefaultServiceName = "folio"

// Provider exports spans over OTLP/HTTP, or does nothing when disabled.
type Provider struct {
	sdk     *sdktrace.TracerProvider
	noop    oteltrace.TracerProvider
	enabled bool
}

// Options configures the exporter.
type Options struct {
	Endpoint    string // host:port of the OTLP/HTTP collector; empty disables export
	ServiceName string
	Insecure    bool
	// Exporter overrides the OTLP exporter (tests).
	Exporter sdktrace.SpanExporter
}

// NewProvider creates a provider. With no endpoint and no exporter it returns
// a disabled provider whose tracers are no-ops.
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	exporter := opts.Exporter
	if exporter == nil {
		if opts.Endpoint == "" {
			return &Provider{noop: noop.NewTracerProvider()}, nil // Disabled
		}
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		var err error
		exporter, err = otlptracehttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, err
		}
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Provider{sdk: sdk, enabled: true}, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// TracerProvider returns the underlying provider, never nil.
func (p *Provider) TracerProvider() oteltrace.TracerProvider {
	if p == nil {
		return noop.NewTracerProvider()
	}
	if p.enabled {
		return p.sdk
	}
	return p.noop
}

// Tracer returns a named tracer from this provider.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	return p.TracerProvider().Tracer(name)
}

// InstallGlobal makes p the process-wide provider used by otel.Tracer.
func (p *Provider) InstallGlobal() {
	otel.SetTracerProvider(p.TracerProvider())
}

// ForceFlush exports every span ended so far.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.ForceFlush(ctx)
}

// Shutdown flushes and closes the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// ParseEndpoint accepts either host:port or an http(s) URL, as found in
// OTEL_EXPORTER_OTLP_ENDPOINT. Plain http and bare host:port export without TLS.
func ParseEndpoint(raw string) (hostport string, insecure bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(raw, "https://"), "/"), false
	case strings.HasPrefix(raw, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(raw, "http://"), "/"), true
	}
	return raw, raw != ""
}
