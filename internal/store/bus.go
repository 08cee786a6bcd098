package store

import (
	"sync"
)

// Bus carries the cross-view refresh signal: after any write the changed
// key is published so open read views can refresh. This is the only
// inter-component protocol in the system.
type Bus interface {
	Publish(key string)
	// Subscribe returns a channel of changed keys and a cancel func that
	// releases the subscription.
	Subscribe() (<-chan string, func())
}

// MemoryBus is the in-process Bus used by a single-binary deployment and
// by tests.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[int]chan string
	next int
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]chan string)}
}

func (b *MemoryBus) Publish(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		// Slow subscribers drop notifications rather than block writers.
		select {
		case ch <- key:
		default:
		}
	}
}

func (b *MemoryBus) Subscribe() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan string, 16)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
