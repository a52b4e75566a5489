package server

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// requestIDMiddleware tags each request with an id. A well-formed UUID sent
// by the client in X-Request-ID is kept so a browser can correlate its own
// logs with ours.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), contextKeyRequestID, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware writes one line per request. Probes log at debug,
// server errors at error.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				level = slog.LevelError
			case r.URL.Path == "/healthz" || r.URL.Path == "/readyz":
				level = slog.LevelDebug
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", requestID(r),
			)
		})
	}
}

// recoveryMiddleware turns a handler panic into a JSON 500 unless the
// handler already started its response.
func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error("handler panic", "error", rec, "path", r.URL.Path, "request_id", requestID(r))
				if rw.statusCode == 0 {
					writeError(rw, http.StatusInternalServerError, "internal_error", "internal server error")
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// hostLimiter allows each remote host a fixed number of game requests per
// minute.
type hostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	period  time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

type bucket struct {
	used    int
	resetAt time.Time
}

func newRateLimiter(requestsPerMinute int) *hostLimiter {
	hl := &hostLimiter{
		buckets: make(map[string]*bucket),
		limit:   requestsPerMinute,
		period:  time.Minute,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if requestsPerMinute > 0 {
		go hl.sweep(5 * time.Minute)
	}
	return hl
}

// sweep drops expired buckets so idle players don't accumulate.
func (hl *hostLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			hl.mu.Lock()
			now := hl.now()
			for host, b := range hl.buckets {
				if now.After(b.resetAt) {
					delete(hl.buckets, host)
				}
			}
			hl.mu.Unlock()
		case <-hl.done:
			return
		}
	}
}

// Stop ends the sweeper. Safe to call more than once.
func (hl *hostLimiter) Stop() {
	hl.once.Do(func() { close(hl.done) })
}

// allow records one request from host and reports how long the caller must
// wait when the budget is spent.
func (hl *hostLimiter) allow(host string) (bool, time.Duration) {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	now := hl.now()
	b, ok := hl.buckets[host]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(hl.period)}
		hl.buckets[host] = b
	}
	if b.used >= hl.limit {
		return false, b.resetAt.Sub(now)
	}
	b.used++
	return true, 0
}

func (hl *hostLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		ok, wait := hl.allow(host)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many commands, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter remembers the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyRequestID).(string)
	return id
}
