package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor pairs a token bucket with the last time its IP was seen so stale
// buckets can be evicted.
type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Throttle hands out one token bucket per client IP. The search proxy sits in
// front of a metadata API with its own aggressive rate limits, so a single
// noisy client must not be able to burn the shared upstream quota.
type Throttle struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// NewThrottle allows limit events per second per IP with the given burst.
// For "10 per minute" pass rate.Every(6*time.Second) with burst 10.
func NewThrottle(limit rate.Limit, burst int) *Throttle {
	t := &Throttle{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
	}
	go t.evictLoop()
	return t
}

func (t *Throttle) bucketFor(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.bucket
}

func (t *Throttle) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		t.mu.Lock()
		for ip, v := range t.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(t.visitors, ip)
			}
		}
		t.mu.Unlock()
	}
}

// clientIP resolves the caller's address, preferring proxy headers since the
// service is expected to run behind a reverse proxy in production.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Limit wraps a handler with per-IP throttling and answers 429 with a
// Retry-After header when a bucket runs dry.
func (t *Throttle) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !t.bucketFor(clientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
			return
		}
		next(w, r)
	}
}
