package events

import (
	"sync"

	"taskcraftify/internal/core/domain"
)

type Kind string

const (
	KindStoreUpdated    Kind = "store_updated"
	KindMutationFailed  Kind = "mutation_failed"
	KindTaskCompleted   Kind = "task_completed"
	KindTaskRestored    Kind = "task_restored"
	KindTaskReopened    Kind = "task_reopened"
	KindTaskRemoved     Kind = "task_removed"
	KindCountsRefreshed Kind = "counts_refreshed"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

type Event struct {
	Kind     Kind
	Entity   domain.EntityKind
	EntityID string
	Op       Op
	Title    string
	Err      error
	// Payload carries the collection snapshot for store updates and the
	// category counts for refreshes.
	Payload any
}

// Bus fans events out to subscribers synchronously, in subscription order.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
	ids  []int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns an idempotent unsubscribe func.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.ids = append(b.ids, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, existing := range b.ids {
				if existing == id {
					b.ids = append(b.ids[:i], b.ids[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish is a no-op on a nil bus.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.ids))
	for _, id := range b.ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(e)
	}
}

// Recorder collects events; handy for tests and for debugging hosts.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) OfKind(kind Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
