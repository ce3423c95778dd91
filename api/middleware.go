package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

// ContextKeyRequestID is the context key under which the per-request ID is stored.
const ContextKeyRequestID contextKey = "requestID"

// RequestID returns the ID assigned to this request, or "" when the
// middleware is not installed.
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyRequestID).(string)
	return id
}

// RequestIDMiddleware tags every request with a UUID. An incoming
// X-Request-ID header is honored so IDs survive a reverse proxy hop; the ID
// is echoed back on the response for client-side correlation.
func RequestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request with method, path, status,
// duration and the request ID.
func LoggingMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Printf("[api] %s %s status=%d duration=%s id=%s",
				r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), RequestID(r))
		})
	}
}
