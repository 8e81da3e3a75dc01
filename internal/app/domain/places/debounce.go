package places

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is how long the scheduler waits after the last
// keystroke before firing a search.
const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer coalesces a stream of queries so only the most recent one
// executes, after a quiet period. Every Schedule resets the timer; Cancel
// drops the pending query, for when the user picks a result or clears the
// field.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

// Schedule arranges for fn(query) to run after the quiet period. A pending
// earlier query is discarded.
func (d *Debouncer) Schedule(query string, fn func(query string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		fn(query)
	})
}

// Cancel drops any pending query.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
