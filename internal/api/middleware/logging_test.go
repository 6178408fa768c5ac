package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/singaporepsi/psimap/internal/api/middleware"
)

// serveLogged runs one request through Logger and returns the decoded entry.
func serveLogged(t *testing.T, wrap func(http.Handler) http.Handler, h http.HandlerFunc, req *http.Request) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	handler := middleware.Logger(zerolog.New(&buf))(h)
	if wrap != nil {
		handler = wrap(handler)
	}

	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_MapFetchOutcomeLevels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		level  string
	}{
		{"map loaded", "/v1/psi", http.StatusOK, "info"},
		{"region before first load", "/v1/psi/regions/north", http.StatusNotFound, "warn"},
		{"fetch rate limited", "/v1/psi", http.StatusTooManyRequests, "warn"},
		{"no data available", "/v1/psi", http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := serveLogged(t, nil, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, tt.path, entry["path"])
		})
	}
}

func TestLogger_RecordsRequestFields(t *testing.T) {
	body := `{"status":{"value":"healthy"}}`
	req := httptest.NewRequest(http.MethodGet, "/v1/psi", http.NoBody)
	req.Header.Set("User-Agent", "psimap-ios/1.0")
	req.RemoteAddr = "203.0.113.9:5100"

	entry := serveLogged(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		// No explicit WriteHeader: the status defaults to 200.
		_, _ = w.Write([]byte(body))
	}, req)

	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, float64(len(body)), entry["bytes"])
	assert.Equal(t, "psimap-ios/1.0", entry["user_agent"])
	assert.Equal(t, "203.0.113.9:5100", entry["remote_addr"])
	assert.NotEmpty(t, entry["duration"])
}

func TestLogger_RouteUsesChiPattern(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(middleware.Logger(zerolog.New(&buf)))
	r.Get("/v1/psi/regions/{direction}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/psi/regions/central", http.NoBody))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/v1/psi/regions/{direction}", entry["route"])
	assert.Equal(t, "/v1/psi/regions/central", entry["path"])
}

func TestLogger_RouteFallsBackToPath(t *testing.T) {
	entry := serveLogged(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

	assert.Equal(t, "/v1/ops/ready", entry["route"])
}

func TestLogger_CorrelationIDs(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() { _ = tp.Shutdown(context.Background()) }()

	wrap := func(next http.Handler) http.Handler {
		return middleware.RequestID(middleware.Tracing("psimap-test")(next))
	}
	entry := serveLogged(t, wrap, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, httptest.NewRequest(http.MethodGet, "/v1/psi", http.NoBody))

	requestID, ok := entry["request_id"].(string)
	require.True(t, ok)
	assert.Contains(t, requestID, "req_")

	traceID, ok := entry["trace_id"].(string)
	require.True(t, ok)
	assert.Len(t, traceID, 32)

	spanID, ok := entry["span_id"].(string)
	require.True(t, ok)
	assert.Len(t, spanID, 16)
}

func TestLogger_NoTraceOutsideTracing(t *testing.T) {
	entry := serveLogged(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	assert.Empty(t, entry["trace_id"])
	assert.Empty(t, entry["span_id"])
	assert.Empty(t, entry["request_id"])
}
