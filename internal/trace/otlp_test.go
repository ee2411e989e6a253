package trace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"folio/internal/api"
	"folio/internal/apitest"
)

func TestNewProvider_DisabledWithoutEndpoint(t *testing.T) {
	p, err := NewProvider(context.Background(), Options{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("x"))
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNilProvider(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("x"))
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_ExportsAPISpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	p, err := NewProvider(context.Background(), Options{Exporter: exp, ServiceName: "folio-test"})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	srv := apitest.New(t)
	srv.ForceStatus(http.MethodGet, "/categories", http.StatusInternalServerError)
	c, err := api.NewClient(srv.BaseURL(), api.WithTracer(p.Tracer("folio/api")))
	require.NoError(t, err)

	_, err = c.ListWorks(context.Background())
	require.NoError(t, err)
	_, err = c.ListCategories(context.Background())
	require.Error(t, err)

	// The in-memory exporter forgets its spans on shutdown.
	require.NoError(t, p.ForceFlush(context.Background()))
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	spans := exp.GetSpans()
	require.Len(t, spans, 2)

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}
	works, ok := byName["list works"]
	require.True(t, ok)
	assert.Contains(t, works.Attributes, attribute.Int("http.status_code", 200))
	assert.Contains(t, works.Attributes, attribute.String("http.method", "GET"))

	cats, ok := byName["list categories"]
	require.True(t, ok)
	assert.Contains(t, cats.Attributes, attribute.Int("http.status_code", 500))
	assert.Equal(t, "Error", cats.Status.Code.String())
	assert.Equal(t, "folio-test", serviceName(works))
}

func serviceName(s tracetest.SpanStub) string {
	for _, kv := range s.Resource.Attributes() {
		if kv.Key == "service.name" {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		host     string
		insecure bool
	}{
		{"localhost:4318", "localhost:4318", true},
		{"http://collector:4318/", "collector:4318", true},
		{"https://otel.example.com", "otel.example.com", false},
		{"", "", false},
	}
	for _, tt := range tests {
		host, insecure := ParseEndpoint(tt.raw)
		if host != tt.host || insecure != tt.insecure {
			t.Errorf("ParseEndpoint(%q) = %q, %v; want %q, %v", tt.raw, host, insecure, tt.host, tt.insecure)
		}
	}
}
