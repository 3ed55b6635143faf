package bus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

// Event is the payload delivered to subscribers after a successful mutation.
type Event struct {
	Type       enums.ClinicEventType
	EntityID   uuid.UUID
	Payload    any
	OccurredAt time.Time
}

// Handler receives one event. Handlers run synchronously on the publisher's
// goroutine; keep them short.
type Handler func(Event)

// Bus is the in-process publish/subscribe channel used for cross-store
// invalidation. Delivery is fire-and-forget: no replay, no ordering across
// topics, and events published before a subscriber registers are dropped.
type Bus struct {
	logg *logger.Logger

	mu   sync.RWMutex
	subs map[enums.ClinicEventType][]Handler
}

func New(logg *logger.Logger) *Bus {
	return &Bus{
		logg: logg,
		subs: make(map[enums.ClinicEventType][]Handler),
	}
}

// Subscribe registers a handler for one event type. Registration order is
// dispatch order.
func (b *Bus) Subscribe(eventType enums.ClinicEventType, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = append(b.subs[eventType], handler)
}

// Publish delivers the event to every subscriber of its type. A panicking
// handler is recovered and logged so one bad listener cannot take down the
// mutation path.
func (b *Bus) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[event.Type]))
	copy(handlers, b.subs[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(event, handler)
	}
}

func (b *Bus) dispatch(event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil && b.logg != nil {
			ctx := b.logg.WithFields(context.Background(), map[string]any{
				"event":     event.Type.String(),
				"entity_id": event.EntityID.String(),
				"panic":     r,
			})
			b.logg.Warn(ctx, "event handler panicked")
		}
	}()
	handler(event)
}
