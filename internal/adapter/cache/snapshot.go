package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"taskcraftify/internal/app/events"
	"taskcraftify/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	kind     TEXT PRIMARY KEY,
	payload  TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL
);`

const (
	upsertSnapshotQuery = `INSERT INTO snapshots (kind, payload, saved_at) VALUES (?, ?, ?)
ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`
	getSnapshotQuery = `SELECT payload, saved_at FROM snapshots WHERE kind = ?`
)

// Snapshots persists the last confirmed collections between sessions so a
// restart can render something before the first fetch lands. It is never
// treated as authoritative.
type Snapshots struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type snapshotRow struct {
	Payload string    `db:"payload"`
	SavedAt time.Time `db:"saved_at"`
}

func Open(path string, logger *zap.Logger) (*Snapshots, error) {
	if logger == nil {
		logger = zap.L()
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}
	// sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init snapshot cache: %w", err)
	}
	return &Snapshots{db: db, logger: logger}, nil
}

func (s *Snapshots) Close() error {
	return s.db.Close()
}

func (s *Snapshots) SaveTasks(ctx context.Context, tasks []domain.Task, at time.Time) error {
	records := make([]taskRecord, 0, len(tasks))
	for _, task := range tasks {
		if task.Ref.IsPending() {
			continue
		}
		records = append(records, toTaskRecord(task))
	}
	return s.save(ctx, domain.EntityTask, records, at)
}

// LoadTasks returns the cached tasks; ok is false when nothing was saved yet.
func (s *Snapshots) LoadTasks(ctx context.Context) (tasks []domain.Task, savedAt time.Time, ok bool, err error) {
	var records []taskRecord
	savedAt, ok, err = s.load(ctx, domain.EntityTask, &records)
	if err != nil || !ok {
		return nil, savedAt, ok, err
	}
	tasks = make([]domain.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, record.toDomain())
	}
	return tasks, savedAt, true, nil
}

func (s *Snapshots) SaveProjects(ctx context.Context, projects []domain.Project, at time.Time) error {
	records := make([]projectRecord, 0, len(projects))
	for _, project := range projects {
		if project.Ref.IsPending() {
			continue
		}
		records = append(records, toProjectRecord(project))
	}
	return s.save(ctx, domain.EntityProject, records, at)
}

func (s *Snapshots) LoadProjects(ctx context.Context) (projects []domain.Project, savedAt time.Time, ok bool, err error) {
	var records []projectRecord
	savedAt, ok, err = s.load(ctx, domain.EntityProject, &records)
	if err != nil || !ok {
		return nil, savedAt, ok, err
	}
	projects = make([]domain.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, record.toDomain())
	}
	return projects, savedAt, true, nil
}

func (s *Snapshots) save(ctx context.Context, kind domain.EntityKind, records any, at time.Time) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertSnapshotQuery, string(kind), string(payload), at.UTC())
	return err
}

func (s *Snapshots) load(ctx context.Context, kind domain.EntityKind, into any) (time.Time, bool, error) {
	var row snapshotRow
	if err := s.db.GetContext(ctx, &row, getSnapshotQuery, string(kind)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	if err := json.Unmarshal([]byte(row.Payload), into); err != nil {
		return time.Time{}, false, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return row.SavedAt, true, nil
}

// Attach saves every store-updated snapshot published on bus. Writes happen
// on a background goroutine and only the newest snapshot per kind is kept.
// The returned func unsubscribes and flushes what is still queued.
func (s *Snapshots) Attach(bus *events.Bus, now func() time.Time) func() {
	w := &writer{
		snapshots: s,
		now:       now,
		queued:    make(map[domain.EntityKind]any),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	unsubscribe := bus.Subscribe(w.enqueue)
	go w.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			w.mu.Lock()
			w.closed = true
			close(w.wake)
			w.mu.Unlock()
			<-w.done
		})
	}
}

type writer struct {
	snapshots *Snapshots
	now       func() time.Time

	mu     sync.Mutex
	queued map[domain.EntityKind]any
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func (w *writer) enqueue(ev events.Event) {
	if ev.Kind != events.KindStoreUpdated {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.queued[ev.Entity] = ev.Payload
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for range w.wake {
		w.flush()
	}
	w.flush()
}

func (w *writer) flush() {
	w.mu.Lock()
	queued := w.queued
	w.queued = make(map[domain.EntityKind]any)
	w.mu.Unlock()

	ctx := context.Background()
	for kind, payload := range queued {
		var err error
		switch items := payload.(type) {
		case []domain.Task:
			err = w.snapshots.SaveTasks(ctx, items, w.now())
		case []domain.Project:
			err = w.snapshots.SaveProjects(ctx, items, w.now())
		default:
			continue
		}
		if err != nil {
			w.snapshots.logger.Warn("failed to save snapshot", zap.String("entity", string(kind)), zap.Error(err))
		}
	}
}
