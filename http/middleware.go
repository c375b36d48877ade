package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// statusWriter wraps http.ResponseWriter to record whether headers have
// been flushed. Failures that occur after the first flush cannot be turned
// into error responses, only logged; every handler in this package relies
// on that tracking.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
	bytes  int64
}

func (w *statusWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.wrote = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// HeadersSent reports whether the response status line has already gone
// out. It is a no-op false for writers not wrapped by TrackMiddleware.
func HeadersSent(w http.ResponseWriter) bool {
	if sw, ok := w.(*statusWriter); ok {
		return sw.wrote
	}
	return false
}

type requestIDKey struct{}

// RequestID returns the identifier assigned to this request, or an empty
// string when TrackMiddleware is not installed.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// TrackMiddleware assigns each request an identifier, wraps the response
// writer for header-sent tracking, and optionally logs every request.
func TrackMiddleware(logRequests bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			sw := &statusWriter{ResponseWriter: w}
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			start := time.Now()
			next.ServeHTTP(sw, r)

			if logRequests {
				slog.Info("request handled",
					"request_id", id,
					"method", r.Method,
					"path", r.URL.Path,
					"status", sw.status,
					"bytes", sw.bytes,
					"duration", time.Since(start),
				)
			}
		})
	}
}
