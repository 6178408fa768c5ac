// Package datagovsg provides a client for the data.gov.sg PSI API.
package datagovsg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/singaporepsi/psimap/internal/provider/resilience"
	"github.com/singaporepsi/psimap/internal/psi"
	"github.com/singaporepsi/psimap/internal/telemetry"
)

const (
	// DefaultBaseURL is the PSI endpoint of the data.gov.sg API.
	DefaultBaseURL = "https://api.data.gov.sg/v1/environment/psi"

	// ProviderName identifies this provider.
	ProviderName = "datagovsg"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 8 << 20

	tracerName = "github.com/singaporepsi/psimap/internal/psi/datagovsg"
)

// ClientConfig holds configuration for the data.gov.sg client.
type ClientConfig struct {
	// BaseURL is the PSI endpoint (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client built from
	// HTTPClientConfig is created.
	HTTPClient HTTPDoer

	// Timeout for the default HTTP client (default: 10s).
	Timeout time.Duration
}

// HTTPClientConfig returns the resilient client configuration for the PSI
// endpoint: one attempt per call and a breaker that never opens, so a manual
// retry always reaches the upstream. The breaker still counts outcomes for
// the status endpoint.
func HTTPClientConfig() resilience.ClientConfig {
	cfg := resilience.DefaultClientConfig(ProviderName)
	cfg.MaxRetries = 0
	cfg.CircuitBreaker.ReadyToTrip = resilience.NeverTrip
	return cfg
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from PSI endpoint", e.StatusCode)
}

// Client is a data.gov.sg PSI client. Each FetchSnapshot call issues exactly
// one request; it does not retry, cache or deduplicate.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	tracer     trace.Tracer
}

var _ psi.Provider = (*Client)(nil)

// NewClient creates a new data.gov.sg client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := HTTPClientConfig()
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		tracer:     telemetry.Tracer(tracerName),
	}
}

// RequestURL returns the request URL for a Singapore local timestamp in
// psi.TimestampLayout.
func (c *Client) RequestURL(timestamp string) (string, error) {
	if err := psi.ValidateTimestamp(timestamp); err != nil {
		return "", err
	}
	// A validated timestamp contains only digits, '-', ':' and 'T', none of
	// which need escaping in a query string.
	return c.baseURL + "?date_time=" + timestamp, nil
}

// NewRequest builds the GET request for timestamp.
func (c *Client) NewRequest(ctx context.Context, timestamp string) (*http.Request, error) {
	url, err := c.RequestURL(timestamp)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// FetchSnapshot fetches and decodes the PSI readings at timestamp.
// Every failure wraps psi.ErrFetchFailed.
func (c *Client) FetchSnapshot(ctx context.Context, timestamp string) (*psi.Snapshot, error) {
	ctx, span := c.tracer.Start(ctx, "datagovsg.FetchSnapshot",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("psi.date_time", timestamp)),
	)
	defer span.End()

	snapshot, err := c.fetch(ctx, span, timestamp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", psi.ErrFetchFailed, err)
	}

	span.SetAttributes(
		attribute.Int("psi.regions", len(snapshot.Regions)),
		attribute.Int("psi.items", len(snapshot.Items)),
	)
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context, span trace.Span, timestamp string) (*psi.Snapshot, error) {
	req, err := c.NewRequest(ctx, timestamp)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch psi: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read psi response: %w", err)
	}

	snapshot, err := psi.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode psi response: %w", err)
	}
	return snapshot, nil
}
