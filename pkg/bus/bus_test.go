package bus

import (
	"testing"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

func newTestBus() *Bus {
	return New(logger.New(logger.Options{ServiceName: "test"}))
}

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	b := newTestBus()
	var order []int
	b.Subscribe(enums.EventPatientDeleted, func(Event) { order = append(order, 1) })
	b.Subscribe(enums.EventPatientDeleted, func(Event) { order = append(order, 2) })

	b.Publish(Event{Type: enums.EventPatientDeleted, EntityID: uuid.New()})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers in registration order, got %v", order)
	}
}

func TestPublishIgnoresOtherTopics(t *testing.T) {
	b := newTestBus()
	called := false
	b.Subscribe(enums.EventAppointmentAdded, func(Event) { called = true })

	b.Publish(Event{Type: enums.EventPatientDeleted})

	if called {
		t.Fatal("handler for a different topic must not fire")
	}
}

func TestPublishBeforeSubscribeIsDropped(t *testing.T) {
	b := newTestBus()
	called := 0
	b.Publish(Event{Type: enums.EventAppointmentChanged})
	b.Subscribe(enums.EventAppointmentChanged, func(Event) { called++ })
	b.Publish(Event{Type: enums.EventAppointmentChanged})

	if called != 1 {
		t.Fatalf("expected exactly one delivery, got %d", called)
	}
}

func TestPublishSurvivesPanickingHandler(t *testing.T) {
	b := newTestBus()
	reached := false
	b.Subscribe(enums.EventInventoryChanged, func(Event) { panic("listener bug") })
	b.Subscribe(enums.EventInventoryChanged, func(Event) { reached = true })

	b.Publish(Event{Type: enums.EventInventoryChanged})

	if !reached {
		t.Fatal("expected later handlers to run after a panic")
	}
}

func TestPublishStampsOccurredAt(t *testing.T) {
	b := newTestBus()
	var got Event
	b.Subscribe(enums.EventPaymentChanged, func(e Event) { got = e })

	b.Publish(Event{Type: enums.EventPaymentChanged})

	if got.OccurredAt.IsZero() {
		t.Fatal("expected OccurredAt to be stamped")
	}
}
