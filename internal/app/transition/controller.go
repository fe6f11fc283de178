package transition

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskcraftify/internal/app/events"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/core/domain"
)

const (
	DefaultDoubleClickWindow = 350 * time.Millisecond
	DefaultExitAnimation     = 400 * time.Millisecond
)

type Config struct {
	DoubleClickWindow time.Duration
	ExitAnimation     time.Duration
}

func (c Config) withDefaults() Config {
	if c.DoubleClickWindow <= 0 {
		c.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if c.ExitAnimation <= 0 {
		c.ExitAnimation = DefaultExitAnimation
	}
	return c
}

// Tasks is the slice of the task store the controller drives.
type Tasks interface {
	GetByID(id string) (domain.Task, bool)
	StageUpdate(patch domain.TaskPatch) (func(ctx context.Context) (domain.Task, error), error)
}

type CountsRefresher interface {
	RefreshCounts()
}

type entry struct {
	state     State
	lastClick time.Time
	timer     clock.Timer
	// epoch changes on every transition; late settlements and timers from an
	// older epoch leave the entry alone.
	epoch uint64
}

// Controller turns completion toggles into store mutations plus a timed,
// cancelable removal from the active view.
type Controller struct {
	tasks     Tasks
	clock     clock.Clock
	bus       *events.Bus
	refresher CountsRefresher
	cfg       Config
	logger    *zap.Logger

	// toggleMu orders toggles so the store sees staged updates in the same
	// order the controller decides them. It is never held during persistence.
	toggleMu sync.Mutex

	mu      sync.Mutex
	entries map[string]*entry
}

func NewController(tasks Tasks, c clock.Clock, bus *events.Bus, refresher CountsRefresher, cfg Config, logger *zap.Logger) *Controller {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Controller{
		tasks:     tasks,
		clock:     c,
		bus:       bus,
		refresher: refresher,
		cfg:       cfg.withDefaults(),
		logger:    logger,
		entries:   make(map[string]*entry),
	}
}

// Toggle handles one activation of the completion control for a task.
func (c *Controller) Toggle(ctx context.Context, id string) (Transition, error) {
	c.toggleMu.Lock()
	task, ok := c.tasks.GetByID(id)
	if !ok {
		c.toggleMu.Unlock()
		return None, domain.ErrTaskNotFound
	}

	c.mu.Lock()
	e := c.entry(id)
	now := c.clock.Now()
	doubleClick := !e.lastClick.IsZero() && now.Sub(e.lastClick) < c.cfg.DoubleClickWindow
	e.lastClick = now
	tr := decide(task.Status, e.state, doubleClick, e.timer != nil)
	c.mu.Unlock()

	if tr == None {
		c.toggleMu.Unlock()
		return None, nil
	}

	target := domain.TaskStatusTodo
	if tr == Complete {
		target = domain.TaskStatusDone
	}
	// StageUpdate publishes store_updated synchronously and subscribers may
	// read view state, so c.mu must not be held here.
	commit, err := c.tasks.StageUpdate(domain.StatusPatch(id, target))
	if err != nil {
		c.toggleMu.Unlock()
		return None, err
	}

	c.mu.Lock()
	e = c.entry(id)
	e.epoch++
	epoch := e.epoch
	if tr == Complete {
		e.state = PendingComplete
		c.arm(id, e)
	} else {
		c.disarm(e)
		e.state = Normal
	}
	c.mu.Unlock()
	c.toggleMu.Unlock()

	_, err = commit(ctx)
	if tr == Complete {
		return c.settleComplete(task, epoch, err)
	}
	return c.settleRestore(task, tr, epoch, err)
}

func (c *Controller) settleComplete(task domain.Task, epoch uint64, err error) (Transition, error) {
	id := task.ID()
	c.mu.Lock()
	current := c.current(id, epoch)
	if err != nil {
		c.resync(id, epoch, Complete)
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("completing task failed", zap.String("task_id", id), zap.Error(err))
		return Complete, err
	}
	if current {
		c.publish(events.KindTaskCompleted, task)
	}
	return Complete, nil
}

// settleRestore finishes a DONE to TODO move, either the rapid undo of a
// pending completion or a reopen.
func (c *Controller) settleRestore(task domain.Task, tr Transition, epoch uint64, err error) (Transition, error) {
	id := task.ID()
	if err != nil {
		c.mu.Lock()
		c.resync(id, epoch, tr)
		c.mu.Unlock()
		c.logger.Warn("restoring task failed",
			zap.String("task_id", id), zap.String("transition", string(tr)), zap.Error(err))
		return tr, err
	}

	kind := events.KindTaskRestored
	if tr == Reopen {
		kind = events.KindTaskReopened
	}
	c.publish(kind, task)
	if c.refresher != nil {
		c.refresher.RefreshCounts()
	}
	return tr, nil
}

// resync realigns the view after a failed persist. The store has already
// rolled back, so its settled status wins: anything but DONE is Normal with
// no timer, whatever epoch the failure belongs to. Caller holds c.mu.
func (c *Controller) resync(id string, epoch uint64, tr Transition) {
	e, ok := c.entries[id]
	if !ok {
		return
	}
	task, found := c.tasks.GetByID(id)
	if !found || task.Status != domain.TaskStatusDone {
		c.disarm(e)
		e.state = Normal
		return
	}
	if e.epoch != epoch {
		return
	}
	switch tr {
	case Undo:
		e.state = PendingComplete
		c.arm(id, e)
	case Reopen:
		e.state = Removed
	}
}

func (c *Controller) current(id string, epoch uint64) bool {
	e, ok := c.entries[id]
	return ok && e.epoch == epoch
}

// arm starts the exit-animation timer for the entry's current epoch.
// Caller holds c.mu.
func (c *Controller) arm(id string, e *entry) {
	c.disarm(e)
	epoch := e.epoch
	e.timer = c.clock.AfterFunc(c.cfg.ExitAnimation, func() {
		c.expire(id, epoch)
	})
}

func (c *Controller) disarm(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// expire is the only path from PendingComplete to Removed.
func (c *Controller) expire(id string, epoch uint64) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok || e.epoch != epoch || e.state != PendingComplete || e.timer == nil {
		c.mu.Unlock()
		return
	}
	e.timer = nil
	e.state = Removed
	c.mu.Unlock()

	task, ok := c.tasks.GetByID(id)
	if !ok {
		task = domain.Task{Ref: domain.Confirmed(id)}
	}
	c.publish(events.KindTaskRemoved, task)
}

// State returns the local view state of a task.
func (c *Controller) State(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e.state
	}
	return Normal
}

// Armed reports whether a removal timer is pending for the task.
func (c *Controller) Armed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return ok && e.timer != nil
}

// Visible reports whether the task should render in the active list.
// Removed only hides a task whose status is still DONE.
func (c *Controller) Visible(id string) bool {
	task, ok := c.tasks.GetByID(id)
	if !ok {
		return false
	}
	return !(c.State(id) == Removed && task.Status == domain.TaskStatusDone)
}

// Forget drops local state for a task, canceling any armed timer.
func (c *Controller) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		c.disarm(e)
		delete(c.entries, id)
	}
}

// Close cancels every armed timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		c.disarm(e)
	}
}

func (c *Controller) entry(id string) *entry {
	e, ok := c.entries[id]
	if !ok {
		e = &entry{state: Normal}
		c.entries[id] = e
	}
	return e
}

func (c *Controller) publish(kind events.Kind, task domain.Task) {
	c.bus.Publish(events.Event{
		Kind:     kind,
		Entity:   domain.EntityTask,
		EntityID: task.ID(),
		Op:       events.OpUpdate,
		Title:    task.Title,
	})
}
