package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/singaporepsi/psimap/internal/telemetry"

// ProviderMetrics records upstream fetch outcomes.
type ProviderMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	superseded      metric.Int64Counter
}

// NewProviderMetrics creates instruments on the global meter provider.
func NewProviderMetrics() (*ProviderMetrics, error) {
	meter := Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	superseded, err := meter.Int64Counter(
		"provider.request.superseded",
		metric.WithDescription("Provider responses discarded because a newer request started"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &ProviderMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		superseded:      superseded,
	}, nil
}

// RecordRequest records one provider request. A nil receiver is a no-op.
func (m *ProviderMetrics) RecordRequest(provider, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
		attribute.Bool("error", err != nil),
	}

	// The request context may already be canceled.
	ctx := context.Background()
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSuperseded counts a response that arrived after a newer request.
func (m *ProviderMetrics) RecordSuperseded(provider string) {
	if m == nil {
		return
	}
	m.superseded.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("provider.name", provider)))
}
