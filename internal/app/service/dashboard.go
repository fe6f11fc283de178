package service

import (
	"sync"
	"time"

	"taskcraftify/internal/app/events"
	"taskcraftify/internal/app/store"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
)

// Dashboard keeps the aggregate category counts shown next to the lists.
type Dashboard struct {
	tasks *store.TaskStore
	clock clock.Clock
	bus   *events.Bus

	mu          sync.RWMutex
	counts      map[categorize.Category]int
	refreshedAt time.Time
}

func NewDashboard(tasks *store.TaskStore, c clock.Clock, bus *events.Bus) *Dashboard {
	if c == nil {
		c = clock.Real{}
	}
	return &Dashboard{tasks: tasks, clock: c, bus: bus, counts: map[categorize.Category]int{}}
}

func (d *Dashboard) RefreshCounts() {
	now := d.clock.Now()
	res := d.tasks.Categorize(now)

	d.mu.Lock()
	d.counts = res.Counts
	d.refreshedAt = now
	d.mu.Unlock()

	d.bus.Publish(events.Event{
		Kind:    events.KindCountsRefreshed,
		Entity:  domain.EntityTask,
		Payload: copyCounts(res.Counts),
	})
}

// Counts returns the last computed counts and when they were computed.
func (d *Dashboard) Counts() (map[categorize.Category]int, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyCounts(d.counts), d.refreshedAt
}

func copyCounts(in map[categorize.Category]int) map[categorize.Category]int {
	out := make(map[categorize.Category]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
