// Package store holds the current board snapshot. The StateStore is the only
// writer; every consumer gets value copies.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"ringboard-service/internal/domain"
	"ringboard-service/internal/domain/classes"
	"ringboard-service/internal/domain/entries"
	"ringboard-service/internal/merge"
)

// Snapshot is the complete, replace-wholesale view of the tracked show at a
// point in time.
type Snapshot struct {
	ClassGroups          []classes.ClassGroup                          `json:"classGroups"`
	Entries              []entries.CompetitorEntry                     `json:"entries"`
	EntriesByGroup       map[domain.GroupKey][]entries.CompetitorEntry `json:"-"`
	ConnectionStatus     domain.ConnectionStatus                       `json:"connectionStatus"`
	LastSuccessfulUpdate time.Time                                     `json:"lastSuccessfulUpdate"`
	LastError            string                                        `json:"lastError,omitempty"`
}

// Listener receives each published snapshot. Notification is synchronous.
type Listener func(Snapshot)

// StateStore applies fetch results and fans out snapshot changes.
type StateStore struct {
	mu         sync.RWMutex
	snap       Snapshot
	lastDigest string
	clock      clockwork.Clock
	listeners  map[int]Listener
	nextID     int
}

// New constructs an empty store in the connecting state.
func New(clock clockwork.Clock) *StateStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &StateStore{
		snap: Snapshot{
			ClassGroups:      []classes.ClassGroup{},
			Entries:          []entries.CompetitorEntry{},
			EntriesByGroup:   map[domain.GroupKey][]entries.CompetitorEntry{},
			ConnectionStatus: domain.StatusConnecting,
		},
		clock:     clock,
		listeners: make(map[int]Listener),
	}
}

// Apply replaces the snapshot wholesale with the result of a fetch cycle and
// reports whether the content actually changed. LastSuccessfulUpdate only
// advances on a content change, so a no-op refresh never reads as "just
// updated" on the board.
func (s *StateStore) Apply(groups []classes.ClassGroup, dogs []entries.CompetitorEntry) bool {
	if groups == nil {
		groups = []classes.ClassGroup{}
	}
	if dogs == nil {
		dogs = []entries.CompetitorEntry{}
	}
	digest := contentDigest(groups, dogs)

	s.mu.Lock()
	changed := digest != s.lastDigest
	s.snap.ClassGroups = groups
	s.snap.Entries = dogs
	s.snap.EntriesByGroup = merge.IndexEntriesByGroup(dogs)
	s.snap.ConnectionStatus = domain.StatusConnected
	s.snap.LastError = ""
	if changed {
		s.snap.LastSuccessfulUpdate = s.clock.Now()
		s.lastDigest = digest
	}
	snap := s.copySnapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return changed
}

// SetError records a fetch failure. Previously held data stays in place;
// stale-but-present beats empty.
func (s *StateStore) SetError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.snap.ConnectionStatus = domain.StatusError
	s.snap.LastError = err.Error()
	snap := s.copySnapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *StateStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySnapshotLocked()
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *StateStore) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *StateStore) copySnapshotLocked() Snapshot {
	out := s.snap
	out.ClassGroups = make([]classes.ClassGroup, len(s.snap.ClassGroups))
	copy(out.ClassGroups, s.snap.ClassGroups)
	out.Entries = make([]entries.CompetitorEntry, len(s.snap.Entries))
	copy(out.Entries, s.snap.Entries)
	out.EntriesByGroup = make(map[domain.GroupKey][]entries.CompetitorEntry, len(s.snap.EntriesByGroup))
	for k, v := range s.snap.EntriesByGroup {
		group := make([]entries.CompetitorEntry, len(v))
		copy(group, v)
		out.EntriesByGroup[k] = group
	}
	return out
}

func (s *StateStore) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

// contentDigest serializes the collections that matter for idempotence.
// Marshal of these value types cannot fail.
func contentDigest(groups []classes.ClassGroup, dogs []entries.CompetitorEntry) string {
	g, _ := json.Marshal(groups)
	e, _ := json.Marshal(dogs)
	return string(g) + "\x00" + string(e)
}
