package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 8

// Memory is an in-process Notifier. Slow subscribers drop events instead of
// blocking publishers.
type Memory struct {
	mu       sync.Mutex
	watchers map[uuid.UUID]map[uint64]chan Event
	nextID   uint64
}

func NewMemory() *Memory {
	return &Memory{watchers: make(map[uuid.UUID]map[uint64]chan Event)}
}

func (m *Memory) Subscribe(ctx context.Context, businessID uuid.UUID) (<-chan Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan Event)
		close(ch)
		return ch, nil
	}
	ch := make(chan Event, subscriberBuffer)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.watchers[businessID] == nil {
		m.watchers[businessID] = make(map[uint64]chan Event)
	}
	m.watchers[businessID][id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers[businessID], id)
		if len(m.watchers[businessID]) == 0 {
			delete(m.watchers, businessID)
		}
		close(ch)
	}()
	return ch, nil
}

// Publish delivers event to current subscribers of its business.
func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.watchers[event.BusinessID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}
