// Package notify fans out page change events scoped to a business. Delivery
// is best-effort: subscribers must reload state on demand and never assume
// they saw every event.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a page change.
type EventType string

const (
	EventPageCreated     EventType = "page.created"
	EventPageExtended    EventType = "page.extended"
	EventPageExpired     EventType = "page.expired"
	EventPageReactivated EventType = "page.reactivated"
	EventPageDeleted     EventType = "page.deleted"
)

// Event is a single change notification.
type Event struct {
	Type       EventType `json:"type"`
	BusinessID uuid.UUID `json:"business_id"`
	PageID     uuid.UUID `json:"page_id"`
	At         time.Time `json:"at"`
}

// Notifier publishes and subscribes to business-scoped change events.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe delivers events for businessID until ctx is cancelled, then
	// closes the channel.
	Subscribe(ctx context.Context, businessID uuid.UUID) (<-chan Event, error)
}

// NewNoOp returns a notifier that drops events and never delivers.
func NewNoOp() Notifier {
	return noOpNotifier{}
}

type noOpNotifier struct{}

func (noOpNotifier) Publish(context.Context, Event) error { return nil }

func (noOpNotifier) Subscribe(ctx context.Context, _ uuid.UUID) (<-chan Event, error) {
	ch := make(chan Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
