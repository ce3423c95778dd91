package fetch

import (
	"fmt"
	"net/http"
	"time"
)

// Reason classifies a fetch failure.
type Reason string

const (
	ReasonNetwork     Reason = "network"
	ReasonHTTP        Reason = "http"
	ReasonRateLimited Reason = "rate_limited"
	ReasonParse       Reason = "parse"
	ReasonMaxRetries  Reason = "max_retries_exceeded"
)

// Error is the typed failure returned by the client. Status is the last HTTP
// status observed (0 for pure transport failures). RetryAfter carries a
// server-requested delay parsed from a 429 response.
type Error struct {
	Reason     Reason
	Status     int
	URL        string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Status > 0:
		return fmt.Sprintf("fetch %s: %s (status %d): %v", e.URL, e.Reason, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	case e.Status > 0:
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Reason, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// retryable reports whether the failure is worth another attempt: transport
// errors, rate limiting, and upstream 5xx. Other 4xx fail immediately.
func (e *Error) retryable() bool {
	switch e.Reason {
	case ReasonNetwork, ReasonRateLimited:
		return true
	case ReasonHTTP:
		return e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}
