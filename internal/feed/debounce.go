package feed

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDebounceWindow is the quiet period used to coalesce a burst of
// change notifications into one fetch.
const DefaultDebounceWindow = 250 * time.Millisecond

// Debouncer coalesces repeated triggers into a single downstream call fired
// one quiet window after the last trigger. It owns no state beyond its timer
// handle.
type Debouncer struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	window time.Duration
	fn     func()
	timer  clockwork.Timer
}

// NewDebouncer constructs a debouncer invoking fn after the quiet window.
// A non-positive window falls back to the default.
func NewDebouncer(clock clockwork.Clock, window time.Duration, fn func()) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{clock: clock, window: window, fn: fn}
}

// Trigger schedules the downstream call, measuring the quiet window from this
// trigger. Repeated triggers within the window reset the timer so one burst
// produces one call.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Reset(d.window)
		return
	}
	d.timer = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		if d.fn != nil {
			d.fn()
		}
	})
}

// Cancel clears any pending timer. A trigger after Cancel schedules anew.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
