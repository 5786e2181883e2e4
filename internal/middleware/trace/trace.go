// Package trace tags and logs outgoing HTTP requests.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	applog "moneytracker/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader carries the request ID to the remote service.
	RequestIDHeader = "X-Request-ID"
)

// Transport is an http.RoundTripper that gives every request an ID and logs
// its outcome under component.
type Transport struct {
	base      http.RoundTripper
	component string
	metrics   *Metrics
}

// Metrics counts requests through a Transport.
type Metrics struct {
	TotalRequests    int64
	FailedRequests   int64
	LastResponseTime int64 // in microseconds
}

// NewTransport wraps base, or http.DefaultTransport when base is nil.
func NewTransport(base http.RoundTripper, component string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, component: component, metrics: &Metrics{}}
}

// Client returns an http.Client using t.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := GetRequestID(r.Context())
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	ctx := WithRequestID(r.Context(), requestID)
	r = r.Clone(ctx)
	r.Header.Set(RequestIDHeader, requestID)

	slog.DebugContext(ctx, "HTTP request started",
		applog.FieldComponent, t.component,
		"request_id", requestID,
		"method", r.Method,
		"host", r.URL.Host,
		"path", r.URL.Path,
		"query", r.URL.RawQuery)

	atomic.AddInt64(&t.metrics.TotalRequests, 1)
	resp, err := t.base.RoundTrip(r)

	duration := time.Since(start)
	atomic.StoreInt64(&t.metrics.LastResponseTime, duration.Microseconds())

	if err != nil {
		atomic.AddInt64(&t.metrics.FailedRequests, 1)
		slog.WarnContext(ctx, "HTTP request failed",
			applog.FieldComponent, t.component,
			"request_id", requestID,
			"path", r.URL.Path,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldError, err)
		return nil, err
	}

	// Use appropriate log level based on status code
	logLevel := slog.LevelDebug
	if resp.StatusCode >= 400 {
		atomic.AddInt64(&t.metrics.FailedRequests, 1)
		logLevel = slog.LevelWarn
	}
	slog.Log(ctx, logLevel, "HTTP request completed",
		applog.FieldComponent, t.component,
		"request_id", requestID,
		"path", r.URL.Path,
		"status_code", resp.StatusCode,
		applog.FieldDuration, duration.Milliseconds())
	return resp, nil
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// WithRequestID returns ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// Metrics returns a snapshot of the counters.
func (t *Transport) Metrics() Metrics {
	return Metrics{
		TotalRequests:    atomic.LoadInt64(&t.metrics.TotalRequests),
		FailedRequests:   atomic.LoadInt64(&t.metrics.FailedRequests),
		LastResponseTime: atomic.LoadInt64(&t.metrics.LastResponseTime),
	}
}

// LogMetrics writes the counters at debug level under the transport's component.
func (t *Transport) LogMetrics(ctx context.Context) {
	m := t.Metrics()
	slog.DebugContext(ctx, "HTTP traffic",
		applog.FieldComponent, t.component,
		"requests", m.TotalRequests,
		"failed", m.FailedRequests,
		"last_response_us", m.LastResponseTime)
}
