package audit

import (
	"context"
	"sync"

	id "fondos/pkg/domain"
)

// MemoryPublisher retains events in memory. It backs local development and
// tests when no broker is configured.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryPublisher returns an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// ListByClient returns the retained events for one client, oldest first.
func (p *MemoryPublisher) ListByClient(_ context.Context, clientID id.ClientID) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Event
	for _, e := range p.events {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}

func (p *MemoryPublisher) Close() error { return nil }
