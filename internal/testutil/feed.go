package testutil

import (
	"sync"

	"ringboard-service/internal/feed"
)

// ManualFeed is a Subscriber whose events are pushed by the test.
type ManualFeed struct {
	mu     sync.Mutex
	active *ManualSubscription

	SubscribeCalls int
	SubscribeErr   error
}

// NewManualFeed returns an empty manual feed.
func NewManualFeed() *ManualFeed {
	return &ManualFeed{}
}

func (f *ManualFeed) Subscribe(scopeKey string) (feed.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SubscribeCalls++
	if f.SubscribeErr != nil {
		return nil, f.SubscribeErr
	}
	if f.active != nil {
		_ = f.active.Close()
	}
	f.active = &ManualSubscription{events: make(chan feed.ChangeEvent, 64)}
	return f.active, nil
}

// Push delivers an event on the active subscription.
func (f *ManualFeed) Push(ev feed.ChangeEvent) {
	f.mu.Lock()
	sub := f.active
	f.mu.Unlock()
	if sub != nil {
		sub.events <- ev
	}
}

// Active returns the current subscription, if any.
func (f *ManualFeed) Active() *ManualSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// ManualSubscription is the test-controlled subscription handed out by
// ManualFeed.
type ManualSubscription struct {
	events chan feed.ChangeEvent
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

func (s *ManualSubscription) Events() <-chan feed.ChangeEvent { return s.events }

func (s *ManualSubscription) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.events)
	})
	return nil
}

// Closed reports whether Close has been called.
func (s *ManualSubscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
