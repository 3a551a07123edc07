package httpserver

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
	"github.com/yndnr/corelink-go/internal/telemetry/logger"
	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID adds a request ID to each request, keeping one supplied by the
// client.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = ulid.Make().String()
			}

			w.Header().Set(HeaderRequestID, requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// limiterIdle is how long an unused per-connection limiter is kept.
const limiterIdle = 3 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per connection.
type limiterSet struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func (s *limiterSet) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > limiterIdle {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > limiterIdle {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimit applies a token bucket per local connection. Requests without a
// connection ID share a bucket keyed by remote address.
func RateLimit(rps float64, burst int) Middleware {
	set := &limiterSet{
		rps:       rate.Limit(rps),
		burst:     burst,
		entries:   make(map[string]*limiterEntry),
		lastSweep: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := logger.ConnIDFromContext(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}

			if !set.get(key, time.Now()).Allow() {
				w.Header().Set("Retry-After", "1")
				code := domain.ErrRateLimited.Code
				handler.WriteError(w, handler.StatusForCode(code), code, domain.ErrRateLimited.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Audit logs every completed request.
func Audit(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id := logger.ConnIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, "conn_id", id)
			}
			if id := logger.RequestIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, "request_id", id)
			}

			if wrapped.statusCode >= 500 {
				log.Error("request completed with error", attrs...)
			} else if wrapped.statusCode >= 400 {
				log.Warn("request completed with client error", attrs...)
			} else {
				log.Info("request completed", attrs...)
			}
		})
	}
}

// Metrics records request counts and latency by route pattern. It must wrap
// the ServeMux directly so the matched pattern is visible after serving.
func Metrics(reg *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			reg.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}

// Recover recovers from panics and returns a 500 error envelope.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error("panic recovered",
						"request_id", logger.RequestIDFromContext(r.Context()),
						"conn_id", logger.ConnIDFromContext(r.Context()),
						"error", err,
						"path", r.URL.Path,
					)

					handler.WriteError(w, http.StatusInternalServerError,
						domain.ErrInternal.Code, domain.ErrInternal.Message)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
