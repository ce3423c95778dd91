package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Client is the shared outbound JSON client. All requests to the external
// metadata and episode services go through it: bounded retries with a linear
// capped delay, 429 awareness, and a per-request timeout.
type Client struct {
	httpc     *http.Client
	attempts  uint
	baseDelay time.Duration
	capDelay  time.Duration
}

// NewClient builds a client with the given retry policy. A nil httpc gets a
// 15 second timeout; non-positive knobs fall back to the observed upstream
// policy (4 attempts, 1s base, 5s cap).
func NewClient(httpc *http.Client, attempts int, baseDelay, capDelay time.Duration) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if attempts <= 0 {
		attempts = 4
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	if capDelay <= 0 {
		capDelay = 5 * time.Second
	}
	return &Client{
		httpc:     httpc,
		attempts:  uint(attempts),
		baseDelay: baseDelay,
		capDelay:  capDelay,
	}
}

// GetJSON fetches u (with optional query params) and decodes the body into
// out. Parse failures are not retried.
func (c *Client) GetJSON(ctx context.Context, u string, q url.Values, out any) error {
	body, err := c.GetRaw(ctx, u, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Reason: ReasonParse, URL: u, Err: err}
	}
	return nil
}

// GetRaw fetches u and returns the verbatim response body. Used directly by
// the pass-through search proxy.
func (c *Client) GetRaw(ctx context.Context, u string, q url.Values) ([]byte, error) {
	if len(q) > 0 {
		if strings.Contains(u, "?") {
			u = u + "&" + q.Encode()
		} else {
			u = u + "?" + q.Encode()
		}
	}

	var body []byte
	err := retry.Do(
		func() error {
			var attemptErr error
			body, attemptErr = c.doOnce(ctx, u)
			return attemptErr
		},
		retry.Attempts(c.attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var fe *Error
			return errors.As(err, &fe) && fe.retryable()
		}),
		retry.DelayType(c.delayFor),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[fetch] retrying url=%s attempt=%d err=%v", u, n+1, err)
		}),
	)
	if err == nil {
		return body, nil
	}

	var fe *Error
	if errors.As(err, &fe) && fe.retryable() {
		// The bound ran out, not the error class.
		return nil, &Error{Reason: ReasonMaxRetries, Status: fe.Status, URL: u, Err: fe}
	}
	return nil, err
}

// delayFor implements the linear capped schedule min(attempt*base, cap),
// escalating by attempt index. A 429 Retry-After wins when it asks for more.
func (c *Client) delayFor(n uint, err error, _ *retry.Config) time.Duration {
	d := time.Duration(n+1) * c.baseDelay
	if d > c.capDelay {
		d = c.capDelay
	}
	var fe *Error
	if errors.As(err, &fe) && fe.RetryAfter > d {
		d = fe.RetryAfter
	}
	return d
}

func (c *Client) doOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Reason: ReasonNetwork, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &Error{Reason: ReasonNetwork, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		fe := &Error{Reason: ReasonRateLimited, Status: resp.StatusCode, URL: u}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := strconv.Atoi(ra); perr == nil && secs > 0 {
				fe.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, fe
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Reason: ReasonHTTP, Status: resp.StatusCode, URL: u}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Reason: ReasonNetwork, URL: u, Err: err}
	}
	return body, nil
}
