package reconcile

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"taskcraftify/internal/core/ports"
)

type Fetcher[E any] interface {
	FetchAll(ctx context.Context) ([]E, error)
}

type Replacer[E any] interface {
	Replace(items []E)
}

// Reconciler refetches the whole collection on every change signal and
// replaces the store's state. Only the most recently issued refetch may
// apply; earlier ones are canceled and their late results dropped.
type Reconciler[E any] struct {
	fetcher Fetcher[E]
	target  Replacer[E]
	feed    ports.ChangeFeed
	logger  *zap.Logger

	mu          sync.Mutex
	ctx         context.Context
	cancelAll   context.CancelFunc
	cancelCur   context.CancelFunc
	unsubscribe func()
	issued      uint64
	applied     uint64
	started     bool
	stopped     bool
	lastErr     error
	wg          sync.WaitGroup
}

func New[E any](fetcher Fetcher[E], target Replacer[E], feed ports.ChangeFeed, logger *zap.Logger) *Reconciler[E] {
	if logger == nil {
		logger = zap.L()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler[E]{
		fetcher:   fetcher,
		target:    target,
		feed:      feed,
		logger:    logger,
		ctx:       ctx,
		cancelAll: cancel,
	}
}

// Start subscribes to the change feed. Calling it again is a no-op.
func (r *Reconciler[E]) Start() {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	unsubscribe := r.feed.Subscribe(r.Refresh)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		unsubscribe()
		return
	}
	r.unsubscribe = unsubscribe
}

// Refresh issues a new refetch, superseding any in flight.
func (r *Reconciler[E]) Refresh() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.issued++
	seq := r.issued
	if r.cancelCur != nil {
		r.cancelCur()
	}
	ctx, cancel := context.WithCancel(r.ctx)
	r.cancelCur = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(ctx, cancel, seq)
}

func (r *Reconciler[E]) run(ctx context.Context, cancel context.CancelFunc, seq uint64) {
	defer r.wg.Done()
	defer cancel()

	items, err := r.fetcher.FetchAll(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || seq != r.issued {
		r.logger.Debug("dropping superseded refetch", zap.Uint64("seq", seq), zap.Uint64("latest", r.issued))
		return
	}
	if err != nil {
		r.lastErr = err
		r.logger.Warn("refetch after change signal failed; keeping last known state",
			zap.Uint64("seq", seq), zap.Error(err))
		return
	}
	r.target.Replace(items)
	r.applied = seq
	r.lastErr = nil
}

// Stop unsubscribes from the feed and prevents any in-flight refetch from
// touching the store. It is safe to call more than once.
func (r *Reconciler[E]) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.cancelAll()
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Wait blocks until every issued refetch goroutine has returned.
func (r *Reconciler[E]) Wait() {
	r.wg.Wait()
}

func (r *Reconciler[E]) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Applied returns the sequence number of the last refetch that replaced state.
func (r *Reconciler[E]) Applied() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied
}
