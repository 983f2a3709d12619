package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the pause required before a live query is evaluated.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays evaluation of a query until Trigger has not been called
// for the configured wait. Only the last query of a burst reaches fn.
type Debouncer struct {
	wait time.Duration
	fn   func(query string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling fn on its own goroutine.
func NewDebouncer(wait time.Duration, fn func(query string)) *Debouncer {
	if wait < 0 {
		wait = 0
	}
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger records query and restarts the wait.
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = query
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// fire runs fn unless a newer Trigger superseded gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	q := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(q)
}

// Stop cancels any pending evaluation. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
