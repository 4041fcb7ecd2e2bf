package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"receitas/internal/adapters/http/perf"
	"receitas/internal/adapters/metrics"
)

// DefaultSlowRequest is the default threshold for slow request warnings.
const DefaultSlowRequest = 200 * time.Millisecond

// unmatchedRoute labels requests no mux pattern claimed, keeping metric cardinality bounded.
const unmatchedRoute = "unmatched"

const routeContextKey contextKey = "route"

// routeHolder carries the matched mux pattern back out to Timing.
type routeHolder struct {
	pattern string
}

// RecordRoute wraps the mux so Timing can label metrics by pattern.
// It must sit directly around the ServeMux: middleware that clones the request hides
// the Pattern the mux sets.
func RecordRoute(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if h, ok := r.Context().Value(routeContextKey).(*routeHolder); ok {
			h.pattern = r.Pattern
		}
	})
}

// requestIDCounter is an atomic counter for request IDs.
var requestIDCounter uint64

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// Timing returns middleware that logs request duration and feeds the metrics.
// Requests to /static/ are excluded.
// Normal requests log at DEBUG; requests slower than slow log at WARN.
// If collector is non-nil, entries are recorded for the admin panel.
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	threshold := float64(slow.Microseconds()) / 1000.0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Skip static assets
			if strings.HasPrefix(path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)

			route := &routeHolder{}
			r = r.WithContext(context.WithValue(r.Context(), routeContextKey, route))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				durationMs := float64(elapsed.Microseconds()) / 1000.0

				if durationMs >= threshold {
					slog.Warn("slow_request",
						"request_id", reqID,
						"method", r.Method,
						"path", path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				} else {
					slog.Debug("request",
						"request_id", reqID,
						"method", r.Method,
						"path", path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				}

				pattern := route.pattern
				if pattern == "" {
					pattern = unmatchedRoute
				}
				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, metrics.StatusLabel(sw.status)).Inc()
				metrics.HTTPRequestDuration.WithLabelValues(pattern).Observe(elapsed.Seconds())

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + path,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
