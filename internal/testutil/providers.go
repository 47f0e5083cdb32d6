package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"ringboard-service/internal/providers"
)

// StubProvider returns a scripted snapshot and counts calls. When Notify is
// set, it receives one send per fetch.
type StubProvider struct {
	mu    sync.Mutex
	snap  providers.RawSnapshot
	err   error
	block chan struct{}

	Calls  atomic.Int64
	Notify chan struct{}
}

// NewStubProvider returns a provider serving the given snapshot.
func NewStubProvider(snap providers.RawSnapshot) *StubProvider {
	return &StubProvider{snap: snap, Notify: make(chan struct{}, 16)}
}

// SetResult swaps the scripted response for subsequent fetches.
func (p *StubProvider) SetResult(snap providers.RawSnapshot, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = snap
	p.err = err
}

// Block makes the next fetches wait until Unblock is called.
func (p *StubProvider) Block() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.block = make(chan struct{})
}

// Unblock releases fetches made while blocked.
func (p *StubProvider) Unblock() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.block != nil {
		close(p.block)
		p.block = nil
	}
}

func (p *StubProvider) FetchSnapshot(ctx context.Context, scopeKey string) (providers.RawSnapshot, error) {
	p.Calls.Add(1)

	p.mu.Lock()
	block := p.block
	snap, err := p.snap, p.err
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return providers.RawSnapshot{}, ctx.Err()
		}
		// Re-read the scripted response; it may have changed while blocked.
		p.mu.Lock()
		snap, err = p.snap, p.err
		p.mu.Unlock()
	}

	if p.Notify != nil {
		select {
		case p.Notify <- struct{}{}:
		default:
		}
	}
	if err != nil {
		return providers.RawSnapshot{}, err
	}
	return snap, nil
}
