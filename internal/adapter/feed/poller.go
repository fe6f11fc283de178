package feed

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskcraftify/internal/core/ports"
)

const (
	TableTasks    = "tasks"
	TableProjects = "projects"

	DefaultPollInterval = 2 * time.Second
	pollTimeout         = 2 * time.Second
)

type fingerprint struct {
	RowCount    int64        `db:"row_count"`
	LastUpdated sql.NullTime `db:"last_updated"`
}

// Poller turns a MySQL table into a payload-less change feed by comparing a
// row count and max(updated_at) fingerprint on every tick.
type Poller struct {
	db       *sqlx.DB
	table    string
	interval time.Duration
	logger   *zap.Logger
	subs     *Local

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	last    fingerprint
	hasLast bool
}

var _ ports.ChangeFeed = (*Poller)(nil)

func NewPoller(db *sqlx.DB, table string, interval time.Duration, logger *zap.Logger) (*Poller, error) {
	if table != TableTasks && table != TableProjects {
		return nil, fmt.Errorf("unsupported feed table %q", table)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Poller{
		db:       db,
		table:    table,
		interval: interval,
		logger:   logger,
		subs:     NewLocal(),
	}, nil
}

// Subscribe starts polling with the first subscriber and stops after the last
// one leaves.
func (p *Poller) Subscribe(onChange func()) func() {
	unsubscribe := p.subs.Subscribe(onChange)

	p.mu.Lock()
	if p.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done = make(chan struct{})
		go p.loop(ctx, p.done)
	}
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			if p.subs.Subscribers() > 0 {
				return
			}
			p.mu.Lock()
			cancel, done := p.cancel, p.done
			p.cancel, p.done = nil, nil
			p.mu.Unlock()
			if cancel != nil {
				cancel()
				<-done
			}
		})
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll reads the fingerprint once and notifies subscribers when it moved.
// It reports whether a signal was sent.
func (p *Poller) Poll(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	var current fingerprint
	query := fmt.Sprintf("SELECT COUNT(*) AS row_count, MAX(updated_at) AS last_updated FROM %s", p.table)
	if err := p.db.GetContext(ctx, &current, query); err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("change feed poll failed", zap.String("table", p.table), zap.Error(err))
		}
		return false
	}

	p.mu.Lock()
	changed := p.hasLast && !sameFingerprint(p.last, current)
	p.last, p.hasLast = current, true
	p.mu.Unlock()

	if changed {
		p.logger.Debug("change feed signal", zap.String("table", p.table))
		p.subs.Notify()
	}
	return changed
}

func sameFingerprint(a, b fingerprint) bool {
	if a.RowCount != b.RowCount || a.LastUpdated.Valid != b.LastUpdated.Valid {
		return false
	}
	return !a.LastUpdated.Valid || a.LastUpdated.Time.Equal(b.LastUpdated.Time)
}
