package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is the settle window for viewport resize handling.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer collapses a burst of triggers into a single trailing-edge call:
// fn runs once the triggers have been quiet for the configured window.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn after the window, replacing any previously scheduled
// call. fn runs on a timer goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels any pending call and rejects further triggers. It must be
// called when the owning view is torn down.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
