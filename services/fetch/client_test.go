package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(attempts int) *Client {
	// Millisecond-scale delays keep the retry path real without slowing tests.
	return NewClient(&http.Client{Timeout: time.Second}, attempts, time.Millisecond, 5*time.Millisecond)
}

func TestGetJSONRecoversWithinRetryBound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := testClient(4).GetJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if !out.OK {
		t.Fatal("expected decoded body after retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testClient(3).GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	if err == nil {
		t.Fatal("expected terminal error")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if fe.Reason != ReasonMaxRetries {
		t.Fatalf("reason = %q, want %q", fe.Reason, ReasonMaxRetries)
	}
	if fe.Status != http.StatusInternalServerError {
		t.Fatalf("last status = %d, want 500", fe.Status)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := testClient(4).GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fe.Reason != ReasonHTTP || fe.Status != http.StatusNotFound {
		t.Fatalf("got reason=%q status=%d, want http/404", fe.Reason, fe.Status)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("404 should not be retried, got %d attempts", got)
	}
}

func TestGetJSONParseErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	err := testClient(4).GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	var fe *Error
	if !errors.As(err, &fe) || fe.Reason != ReasonParse {
		t.Fatalf("expected parse error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("parse failure should not be retried, got %d attempts", got)
	}
}

func TestDelayScheduleMonotonicAndCapped(t *testing.T) {
	c := NewClient(nil, 6, time.Second, 5*time.Second)
	var prev time.Duration
	for n := uint(0); n < 6; n++ {
		d := c.delayFor(n, &Error{Reason: ReasonHTTP, Status: 500}, nil)
		if d < prev {
			t.Fatalf("delay decreased at attempt %d: %s < %s", n, d, prev)
		}
		if d > 5*time.Second {
			t.Fatalf("delay exceeds cap at attempt %d: %s", n, d)
		}
		prev = d
	}
	if prev != 5*time.Second {
		t.Fatalf("late delays should sit at the cap, got %s", prev)
	}
}

func TestDelayHonorsRetryAfter(t *testing.T) {
	c := NewClient(nil, 4, time.Second, 5*time.Second)
	fe := &Error{Reason: ReasonRateLimited, Status: 429, RetryAfter: 30 * time.Second}
	if d := c.delayFor(0, fe, nil); d != 30*time.Second {
		t.Fatalf("expected Retry-After to win, got %s", d)
	}
	fe.RetryAfter = time.Millisecond
	if d := c.delayFor(3, fe, nil); d != 4*time.Second {
		t.Fatalf("expected schedule to win over a smaller Retry-After, got %s", d)
	}
}

func TestGetRawReturnsVerbatimBody(t *testing.T) {
	const payload = `{"data":[{"mal_id":1}],"pagination":{"last_visible_page":3}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "naruto" {
			t.Errorf("query not forwarded: %s", r.URL.RawQuery)
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	body, err := testClient(2).GetRaw(context.Background(), srv.URL, map[string][]string{"q": {"naruto"}})
	if err != nil {
		t.Fatalf("GetRaw: %v", err)
	}
	if string(body) != payload {
		t.Fatalf("body altered: %s", body)
	}
}
