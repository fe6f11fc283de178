package events_test

import (
	"testing"

	"taskcraftify/internal/app/events"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := events.NewBus()

	var order []string
	bus.Subscribe(func(events.Event) { order = append(order, "first") })
	bus.Subscribe(func(events.Event) { order = append(order, "second") })

	bus.Publish(events.Event{Kind: events.KindStoreUpdated})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := events.NewBus()
	rec := &events.Recorder{}
	other := &events.Recorder{}

	unsubscribe := bus.Subscribe(rec.Record)
	bus.Subscribe(other.Record)

	unsubscribe()
	unsubscribe()
	bus.Publish(events.Event{Kind: events.KindTaskCompleted})

	assert.Empty(t, rec.Events())
	assert.Len(t, other.OfKind(events.KindTaskCompleted), 1)
}

func TestBus_NilPublishIsNoop(t *testing.T) {
	var bus *events.Bus
	assert.NotPanics(t, func() { bus.Publish(events.Event{}) })
}
