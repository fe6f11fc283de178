package feed

import (
	"sync"

	"taskcraftify/internal/core/ports"
)

// Local is an in-process change feed. Notify fans a signal out to every
// subscriber; the host calls it when another component knows remote state moved.
type Local struct {
	mu   sync.RWMutex
	next int
	subs map[int]func()
}

var _ ports.ChangeFeed = (*Local)(nil)

func NewLocal() *Local {
	return &Local{subs: make(map[int]func())}
}

func (f *Local) Subscribe(onChange func()) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = onChange
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

func (f *Local) Notify() {
	f.mu.RLock()
	handlers := make([]func(), 0, len(f.subs))
	for _, handler := range f.subs {
		handlers = append(handlers, handler)
	}
	f.mu.RUnlock()

	for _, handler := range handlers {
		handler()
	}
}

func (f *Local) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
