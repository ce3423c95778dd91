package search

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"aniview/models"
)

// Searcher resolves a query to a ranked result list.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// Snapshot is the presentation state the quick-search view renders from.
type Snapshot struct {
	Query   string
	Loading bool
	Err     error
	Results []models.SearchResult
}

// Debouncer converts a raw keystroke stream into a rate-limited query stream.
// Only the last keystroke inside the quiet window triggers a fetch, and every
// issued fetch carries a monotonically increasing sequence number: a response
// is applied only while its sequence is still the latest issued, so a slow
// fetch for an old query can never overwrite a newer query's results.
type Debouncer struct {
	searcher Searcher
	window   time.Duration
	limit    int

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	closed  bool
	state   Snapshot
}

// NewDebouncer builds a debouncer with the given quiet window and result cap.
func NewDebouncer(s Searcher, window time.Duration, limit int) *Debouncer {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	if limit <= 0 {
		limit = 5
	}
	return &Debouncer{
		searcher: s,
		window:   window,
		limit:    limit,
		state:    Snapshot{Results: []models.SearchResult{}},
	}
}

// OnQueryChange registers a keystroke. A keystroke inside the quiet window
// cancels the pending trigger and restarts the timer. An empty or
// whitespace-only query clears results immediately with no network call and
// invalidates any in-flight fetch.
func (d *Debouncer) OnQueryChange(raw string) {
	q := strings.TrimSpace(raw)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if q == "" {
		d.seq++ // orphan any pending response
		d.state = Snapshot{Results: []models.SearchResult{}}
		return
	}
	d.timer = time.AfterFunc(d.window, func() { d.issue(q) })
}

// issue fires the debounced fetch for q.
func (d *Debouncer) issue(q string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	token := d.seq
	d.state.Query = q
	d.state.Loading = true
	d.state.Err = nil
	d.mu.Unlock()

	results, err := d.searcher.Search(context.Background(), q, d.limit)

	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.seq || d.closed {
		// A newer query was issued (or the view went away) while this fetch
		// was in flight; its results are stale and must not be shown.
		log.Printf("[search] dropping stale response query=%q seq=%d latest=%d", q, token, d.seq)
		return
	}
	d.state.Loading = false
	if err != nil {
		d.state.Err = err
		d.state.Results = []models.SearchResult{}
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	d.state.Results = results
}

// Snapshot returns the current presentation state.
func (d *Debouncer) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := d.state
	snap.Results = append([]models.SearchResult(nil), d.state.Results...)
	return snap
}

// Close cancels any pending trigger and orphans in-flight fetches. Used when
// the owning view unmounts.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.closed = true
}
