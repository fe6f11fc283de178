package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskcraftify/internal/app/events"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"
)

// ErrValidation marks failures rejected before any optimistic change.
var ErrValidation = errors.New("validation failed")

var errUnconfirmed = errors.New("persistence returned an unconfirmed entity")

// MutationError is returned when the persistence port rejects a mutation
// and the store has rolled the optimistic change back.
type MutationError struct {
	Entity domain.EntityKind
	Op     events.Op
	ID     string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Schema binds a domain entity type to the generic store.
type Schema[E any, D any, P any] interface {
	Kind() domain.EntityKind
	NotFound() error
	Normalize(draft D) D
	ValidateDraft(draft D) error
	ValidatePatch(patch P) error
	Target(patch P) string
	Placeholder(draft D, ref domain.Ref, now time.Time) E
	Ref(entity E) domain.Ref
	Apply(entity E, patch P, now time.Time) E
	Clone(entity E) E
	Label(entity E) string
}

type Deps struct {
	Clock  clock.Clock
	Bus    *events.Bus
	Logger *zap.Logger
	// NewID generates temporary placeholder ids.
	NewID func() string
}

type mutation[E any] struct {
	op         events.Op
	snapshot   E
	position   int
	superseded bool
}

// Store is the single source of truth for one entity collection. Every
// mutation is applied locally first, persisted second, and rolled back to
// its own captured snapshot when persistence fails.
type Store[E any, D any, P any] struct {
	mu     sync.RWMutex
	schema Schema[E, D, P]
	port   ports.Persistence[E, D, P]
	clock  clock.Clock
	bus    *events.Bus
	logger *zap.Logger
	newID  func() string

	items    []E
	inflight map[string][]*mutation[E]
	lastErr  error
}

func New[E any, D any, P any](schema Schema[E, D, P], port ports.Persistence[E, D, P], deps Deps) *Store[E, D, P] {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.L()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Store[E, D, P]{
		schema:   schema,
		port:     port,
		clock:    deps.Clock,
		bus:      deps.Bus,
		logger:   deps.Logger,
		newID:    deps.NewID,
		items:    []E{},
		inflight: make(map[string][]*mutation[E]),
	}
}

// Create inserts a placeholder at the head of the collection and replaces it
// in place with the confirmed entity, or removes it on failure.
func (s *Store[E, D, P]) Create(ctx context.Context, draft D) (E, error) {
	var zero E
	draft = s.schema.Normalize(draft)
	if err := s.schema.ValidateDraft(draft); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	tempRef := domain.Pending(s.newID())
	s.mu.Lock()
	placeholder := s.schema.Placeholder(draft, tempRef, s.clock.Now())
	s.items = append([]E{placeholder}, s.items...)
	s.mu.Unlock()
	s.publishUpdated()

	confirmed, err := s.port.Create(ctx, draft)
	if err == nil {
		if ref := s.schema.Ref(confirmed); ref.IsZero() || ref.IsPending() {
			err = errUnconfirmed
		}
	}

	s.mu.Lock()
	idx := s.indexOfRef(tempRef)
	if err != nil {
		if idx >= 0 {
			s.removeAt(idx)
		}
		mErr := &MutationError{Entity: s.schema.Kind(), Op: events.OpCreate, ID: tempRef.ID(), Err: err}
		s.lastErr = mErr
		s.mu.Unlock()
		s.fail(mErr, s.schema.Label(placeholder))
		return zero, mErr
	}

	confirmed = s.schema.Clone(confirmed)
	switch existing := s.indexOfRef(s.schema.Ref(confirmed)); {
	case existing >= 0:
		// A refetch already delivered the confirmed row.
		s.items[existing] = confirmed
		if idx >= 0 {
			s.removeAt(idx)
		}
	case idx >= 0:
		s.items[idx] = confirmed
	default:
		s.items = append([]E{confirmed}, s.items...)
	}
	s.mu.Unlock()
	s.publishUpdated()

	return s.schema.Clone(confirmed), nil
}

// Update applies the patch optimistically and persists it.
func (s *Store[E, D, P]) Update(ctx context.Context, patch P) (E, error) {
	commit, err := s.StageUpdate(patch)
	if err != nil {
		var zero E
		return zero, err
	}
	return commit(ctx)
}

// StageUpdate performs the optimistic half of an update synchronously and
// returns the commit func that persists and settles it. commit must be
// called once; later calls return the first result.
func (s *Store[E, D, P]) StageUpdate(patch P) (func(ctx context.Context) (E, error), error) {
	if err := s.schema.ValidatePatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	id := s.schema.Target(patch)

	s.mu.Lock()
	idx, err := s.confirmedIndex(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	m := &mutation[E]{op: events.OpUpdate, snapshot: s.schema.Clone(s.items[idx])}
	s.items[idx] = s.schema.Apply(s.items[idx], patch, s.clock.Now())
	s.inflight[id] = append(s.inflight[id], m)
	s.mu.Unlock()
	s.publishUpdated()

	var (
		once   sync.Once
		result E
		resErr error
	)
	return func(ctx context.Context) (E, error) {
		once.Do(func() {
			confirmed, err := s.port.Update(ctx, id, patch)
			result, resErr = s.settleUpdate(id, m, confirmed, err)
		})
		return result, resErr
	}, nil
}

func (s *Store[E, D, P]) settleUpdate(id string, m *mutation[E], confirmed E, err error) (E, error) {
	var zero E
	s.mu.Lock()
	if err == nil {
		confirmed = s.schema.Clone(confirmed)
	}
	s.settle(id, m, confirmed, err)
	if err != nil {
		mErr := &MutationError{Entity: s.schema.Kind(), Op: events.OpUpdate, ID: id, Err: err}
		s.lastErr = mErr
		s.mu.Unlock()
		s.fail(mErr, s.schema.Label(m.snapshot))
		return zero, mErr
	}
	s.mu.Unlock()
	s.publishUpdated()
	return s.schema.Clone(confirmed), nil
}

// Delete removes the entity optimistically and re-inserts it on failure.
func (s *Store[E, D, P]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %w", ErrValidation, domain.ErrMissingID)
	}

	s.mu.Lock()
	idx, err := s.confirmedIndex(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	m := &mutation[E]{op: events.OpDelete, snapshot: s.schema.Clone(s.items[idx]), position: idx}
	s.removeAt(idx)
	s.inflight[id] = append(s.inflight[id], m)
	s.mu.Unlock()
	s.publishUpdated()

	err = s.port.Delete(ctx, id)

	var zero E
	s.mu.Lock()
	s.settle(id, m, zero, err)
	if err != nil {
		mErr := &MutationError{Entity: s.schema.Kind(), Op: events.OpDelete, ID: id, Err: err}
		s.lastErr = mErr
		s.mu.Unlock()
		s.fail(mErr, s.schema.Label(m.snapshot))
		return mErr
	}
	s.mu.Unlock()
	return nil
}

// settle resolves one mutation in the per-id chain. Only the most recently
// issued unsettled mutation touches visible state; an earlier one hands its
// outcome to its successor so that the successor's rollback lands on a
// coherent snapshot. Caller holds s.mu.
func (s *Store[E, D, P]) settle(id string, m *mutation[E], confirmed E, err error) {
	chain := s.inflight[id]
	pos := -1
	for i, candidate := range chain {
		if candidate == m {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}

	if pos < len(chain)-1 {
		next := chain[pos+1]
		switch {
		case err != nil:
			next.snapshot = m.snapshot
		case m.op == events.OpUpdate:
			next.snapshot = s.schema.Clone(confirmed)
		}
	} else if !m.superseded {
		s.applyOutcome(id, m, confirmed, err)
		if err == nil {
			for _, earlier := range chain[:pos] {
				earlier.superseded = true
			}
		}
	}

	chain = append(chain[:pos], chain[pos+1:]...)
	if len(chain) == 0 {
		delete(s.inflight, id)
		return
	}
	s.inflight[id] = chain
}

func (s *Store[E, D, P]) applyOutcome(id string, m *mutation[E], confirmed E, err error) {
	idx := s.indexOfRef(domain.Confirmed(id))
	switch {
	case m.op == events.OpUpdate && err != nil:
		if idx >= 0 {
			s.items[idx] = m.snapshot
		}
	case m.op == events.OpUpdate:
		if idx >= 0 {
			s.items[idx] = confirmed
		}
	case m.op == events.OpDelete && err != nil:
		if idx >= 0 {
			s.items[idx] = m.snapshot
			return
		}
		pos := min(m.position, len(s.items))
		s.items = append(s.items, m.snapshot)
		copy(s.items[pos+1:], s.items[pos:])
		s.items[pos] = m.snapshot
	}
}

// Replace installs an authoritative collection. Placeholders for creations
// still in flight stay at the head; rows with a delete in flight stay out.
func (s *Store[E, D, P]) Replace(items []E) {
	s.mu.Lock()
	next := make([]E, 0, len(items))
	for _, item := range s.items {
		if s.schema.Ref(item).IsPending() {
			next = append(next, item)
		}
	}
	for _, item := range items {
		if s.deleting(s.schema.Ref(item).ID()) {
			continue
		}
		next = append(next, s.schema.Clone(item))
	}
	s.items = next
	s.mu.Unlock()
	s.publishUpdated()
}

// FetchAll reads the authoritative collection from the persistence port.
func (s *Store[E, D, P]) FetchAll(ctx context.Context) ([]E, error) {
	return s.port.FetchAll(ctx)
}

// Load fetches and installs the authoritative collection.
func (s *Store[E, D, P]) Load(ctx context.Context) error {
	items, err := s.port.FetchAll(ctx)
	if err != nil {
		return err
	}
	s.Replace(items)
	return nil
}

func (s *Store[E, D, P]) GetByID(id string) (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if s.schema.Ref(item).ID() == id {
			return s.schema.Clone(item), true
		}
	}
	var zero E
	return zero, false
}

// GetAll returns a deep copy of the collection in display order.
func (s *Store[E, D, P]) GetAll() []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store[E, D, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Phase reports the lifecycle phase of an id.
func (s *Store[E, D, P]) Phase(id string) domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deleting(id) {
		return domain.PhaseDeleting
	}
	for _, item := range s.items {
		ref := s.schema.Ref(item)
		if ref.ID() != id {
			continue
		}
		if ref.IsPending() {
			return domain.PhaseCreating
		}
		return domain.PhaseConfirmed
	}
	return domain.PhaseUnknown
}

func (s *Store[E, D, P]) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store[E, D, P]) ClearLastError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Store[E, D, P]) confirmedIndex(id string) (int, error) {
	for i, item := range s.items {
		ref := s.schema.Ref(item)
		if ref.ID() != id {
			continue
		}
		if ref.IsPending() {
			return -1, fmt.Errorf("%w: %w", ErrValidation, domain.ErrEntityPending)
		}
		return i, nil
	}
	return -1, s.schema.NotFound()
}

func (s *Store[E, D, P]) deleting(id string) bool {
	for _, m := range s.inflight[id] {
		if m.op == events.OpDelete {
			return true
		}
	}
	return false
}

func (s *Store[E, D, P]) indexOfRef(ref domain.Ref) int {
	for i, item := range s.items {
		if s.schema.Ref(item) == ref {
			return i
		}
	}
	return -1
}

func (s *Store[E, D, P]) removeAt(idx int) {
	s.items = append(s.items[:idx], s.items[idx+1:]...)
}

func (s *Store[E, D, P]) snapshotLocked() []E {
	out := make([]E, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, s.schema.Clone(item))
	}
	return out
}

func (s *Store[E, D, P]) publishUpdated() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Kind:    events.KindStoreUpdated,
		Entity:  s.schema.Kind(),
		Payload: s.GetAll(),
	})
}

func (s *Store[E, D, P]) fail(err *MutationError, label string) {
	s.logger.Warn("optimistic mutation rolled back",
		zap.String("entity", string(err.Entity)),
		zap.String("op", string(err.Op)),
		zap.String("id", err.ID),
		zap.Error(err.Err),
	)
	s.bus.Publish(events.Event{
		Kind:     events.KindMutationFailed,
		Entity:   err.Entity,
		EntityID: err.ID,
		Op:       err.Op,
		Title:    label,
		Err:      err,
	})
	s.publishUpdated()
}
