package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/singaporepsi/psimap/internal/api/middleware"
	"github.com/singaporepsi/psimap/internal/telemetry"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]interface{} {
	attrs := make(map[string]interface{})
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	return attrs
}

// psiRouter mounts the PSI routes behind Tracing, each answering status.
func psiRouter(status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Tracing("psimap-test"))
	h := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) }
	r.Get("/v1/psi/", h)
	r.Get("/v1/psi/regions/{direction}", h)
	return r
}

func TestTracing_ServerSpanPerRoute(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		status   int
		spanName string
		code     codes.Code
	}{
		{"map loaded", "/v1/psi/", http.StatusOK, "GET /v1/psi/", codes.Unset},
		{"region demand", "/v1/psi/regions/west", http.StatusOK, "GET /v1/psi/regions/{direction}", codes.Unset},
		{"region before load", "/v1/psi/regions/west", http.StatusNotFound, "GET /v1/psi/regions/{direction}", codes.Unset},
		{"no data", "/v1/psi/", http.StatusServiceUnavailable, "GET /v1/psi/", codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)

			psiRouter(tt.status).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.spanName, spans[0].Name())
			assert.Equal(t, tt.code, spans[0].Status().Code)

			attrs := spanAttrs(spans[0])
			assert.Equal(t, int64(tt.status), attrs["http.response.status_code"])
			assert.Equal(t, tt.path, attrs["url.path"])
			assert.Equal(t, "psimap-test", attrs["service.name"])
		})
	}
}

func TestTracing_NoDataStatusDescription(t *testing.T) {
	sr := setupTestTracer(t)

	psiRouter(http.StatusServiceUnavailable).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/psi/", http.NoBody))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Service Unavailable", spans[0].Status().Description)
}

func TestTracing_ContinuesClientTrace(t *testing.T) {
	sr := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/psi/", http.NoBody)
	req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

	psiRouter(http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "b7ad6b7169203331", spans[0].Parent().SpanID().String())
}

func TestTracing_UpstreamSpanNestsUnderRequest(t *testing.T) {
	sr := setupTestTracer(t)

	handler := middleware.Tracing("psimap-test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, span := telemetry.Tracer("upstream").Start(r.Context(), "datagovsg.FetchSnapshot")
		span.End()
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/psi", http.NoBody))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	fetch, server := spans[0], spans[1]
	assert.Equal(t, "datagovsg.FetchSnapshot", fetch.Name())
	assert.Equal(t, server.SpanContext().SpanID(), fetch.Parent().SpanID())
	assert.Equal(t, server.SpanContext().TraceID(), fetch.SpanContext().TraceID())
}

func TestTracing_TagsRequestID(t *testing.T) {
	sr := setupTestTracer(t)

	handler := middleware.RequestID(middleware.Tracing("psimap-test")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/psi", http.NoBody)
	req.Header.Set("X-Request-Id", "ios-screen-appear-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ios-screen-appear-7", spanAttrs(spans[0])["request.id"])
}
