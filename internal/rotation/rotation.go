// Package rotation cycles a display through a prioritized list of panels.
// Panels whose condition is not met are skipped; when nothing is eligible the
// highest-priority panel is shown anyway so the screen is never blank.
package rotation

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDwell is how long each panel stays on screen.
const DefaultDwell = 10 * time.Second

// Panel is one rotatable display surface.
type Panel struct {
	ID       string
	Priority int
	Dwell    time.Duration
	// Condition reports whether the panel currently has something to show.
	// A nil Condition means always eligible.
	Condition func() bool
}

func (p Panel) eligible() bool {
	return p.Condition == nil || p.Condition()
}

func (p Panel) dwell() time.Duration {
	if p.Dwell > 0 {
		return p.Dwell
	}
	return DefaultDwell
}

// Callback receives the panel id each time the rotation advances.
type Callback func(panelID string)

// Scheduler advances through eligible panels in priority order, round robin.
type Scheduler struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	panels    []Panel
	cursor    int
	timer     clockwork.Timer
	running   bool
	callbacks []Callback
}

// NewScheduler constructs a stopped scheduler. A nil clock uses the real
// clock.
func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// Initialize replaces the panel set. Panels are ordered by descending
// priority, ties broken by id for stable rotation. Safe to call while
// running; the cursor resets to the front.
func (s *Scheduler) Initialize(panels []Panel) {
	sorted := append([]Panel(nil), panels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	s.mu.Lock()
	s.panels = sorted
	s.cursor = 0
	s.mu.Unlock()
}

// Subscribe registers a callback for every advance and returns its
// unsubscribe function.
func (s *Scheduler) Subscribe(cb Callback) func() {
	s.mu.Lock()
	s.callbacks = append(s.callbacks, cb)
	idx := len(s.callbacks) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.callbacks[idx] = nil
		s.mu.Unlock()
	}
}

// Start shows the first eligible panel immediately and begins advancing.
// Start is a no-op while already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running || len(s.panels) == 0 {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.advance()
}

// Stop halts rotation. The current panel stays on screen.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.running = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

// Current returns the panel the cursor points at, if any.
func (s *Scheduler) Current() (Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.panels) == 0 {
		return Panel{}, false
	}
	return s.panels[s.cursor], true
}

// advance selects the next eligible panel, notifies subscribers and arms the
// dwell timer for the following step.
func (s *Scheduler) advance() {
	s.mu.Lock()
	if !s.running || len(s.panels) == 0 {
		s.mu.Unlock()
		return
	}

	next := s.nextEligibleLocked()
	s.cursor = next
	panel := s.panels[next]
	callbacks := append([]Callback(nil), s.callbacks...)
	s.timer = s.clock.AfterFunc(panel.dwell(), s.advance)
	s.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(panel.ID)
		}
	}
}

// nextEligibleLocked scans one full cycle starting after the cursor. When no
// panel is eligible it falls back to index 0, the highest-priority panel.
func (s *Scheduler) nextEligibleLocked() int {
	n := len(s.panels)
	start := s.cursor
	if s.timer == nil {
		// First advance after Start begins at the front.
		start = n - 1
	}
	for i := 1; i <= n; i++ {
		idx := (start + i) % n
		if s.panels[idx].eligible() {
			return idx
		}
	}
	return 0
}
