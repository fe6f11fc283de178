package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskcraftify/internal/adapter/cache"
	dbadapter "taskcraftify/internal/adapter/db"
	"taskcraftify/internal/adapter/feed"
	"taskcraftify/internal/app/events"
	"taskcraftify/internal/app/reconcile"
	"taskcraftify/internal/app/service"
	"taskcraftify/internal/app/store"
	"taskcraftify/internal/app/transition"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/config"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
)

// app holds the wired sync core for one session.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  clock.Clock
	bus    *events.Bus

	db        *sqlx.DB
	snapshots *cache.Snapshots

	tasks      *store.TaskStore
	projects   *store.ProjectStore
	dashboard  *service.Dashboard
	controller *transition.Controller

	closers []func()
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		clock:  clock.Real{},
		bus:    events.NewBus(),
		db:     db,
	}
	a.onClose(func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	})

	deps := store.Deps{Clock: a.clock, Bus: a.bus, Logger: logger.Named("store")}
	a.tasks = store.NewTaskStore(dbadapter.NewTaskRepository(db), deps, categorizeOptions(cfg))
	a.projects = store.NewProjectStore(dbadapter.NewProjectRepository(db), deps)
	a.dashboard = service.NewDashboard(a.tasks, a.clock, a.bus)
	a.controller = transition.NewController(a.tasks, a.clock, a.bus, a.dashboard, transition.Config{
		DoubleClickWindow: cfg.DoubleClickWindow,
		ExitAnimation:     cfg.ExitAnimation,
	}, logger.Named("transition"))
	a.onClose(a.controller.Close)

	a.bus.Subscribe(func(ev events.Event) {
		if ev.Kind == events.KindMutationFailed {
			logger.Info("optimistic change rolled back",
				zap.String("entity", string(ev.Entity)),
				zap.String("op", string(ev.Op)),
				zap.String("id", ev.EntityID),
				zap.Error(ev.Err),
			)
		}
	})

	return a, nil
}

func categorizeOptions(cfg *config.Config) categorize.Options {
	return categorize.Options{
		Location:     cfg.Location,
		WeekStart:    cfg.WeekStart,
		RecentWindow: cfg.RecentWindow,
	}
}

// openCache seeds the stores from the local snapshot cache and keeps it
// updated. A broken cache is logged and skipped.
func (a *app) openCache(ctx context.Context) {
	snapshots, err := cache.Open(a.cfg.CachePath, a.logger.Named("cache"))
	if err != nil {
		a.logger.Warn("snapshot cache unavailable", zap.String("path", a.cfg.CachePath), zap.Error(err))
		return
	}
	a.snapshots = snapshots
	a.onClose(func() { _ = snapshots.Close() })

	if tasks, savedAt, ok, err := snapshots.LoadTasks(ctx); err != nil {
		a.logger.Warn("failed to read cached tasks", zap.Error(err))
	} else if ok {
		a.tasks.Replace(tasks)
		a.logger.Info("seeded tasks from cache", zap.Int("count", len(tasks)), zap.Time("saved_at", savedAt))
	}
	if projects, _, ok, err := snapshots.LoadProjects(ctx); err != nil {
		a.logger.Warn("failed to read cached projects", zap.Error(err))
	} else if ok {
		a.projects.Replace(projects)
	}

	a.onClose(snapshots.Attach(a.bus, a.clock.Now))
}

// load fetches both collections once. Failures keep whatever was seeded.
func (a *app) load(ctx context.Context) error {
	if err := a.tasks.Load(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	if err := a.projects.Load(ctx); err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	a.dashboard.RefreshCounts()
	return nil
}

// startSync connects each store to its MySQL change feed.
func (a *app) startSync() error {
	taskFeed, err := feed.NewPoller(a.db, feed.TableTasks, a.cfg.FeedPollInterval, a.logger.Named("feed"))
	if err != nil {
		return err
	}
	projectFeed, err := feed.NewPoller(a.db, feed.TableProjects, a.cfg.FeedPollInterval, a.logger.Named("feed"))
	if err != nil {
		return err
	}

	taskSync := reconcile.New[domain.Task](a.tasks, a.tasks, taskFeed, a.logger.Named("reconcile"))
	projectSync := reconcile.New[domain.Project](a.projects, a.projects, projectFeed, a.logger.Named("reconcile"))
	taskSync.Start()
	projectSync.Start()
	a.onClose(taskSync.Stop)
	a.onClose(projectSync.Stop)

	// Counts follow every change to the task collection from here on.
	a.bus.Subscribe(func(ev events.Event) {
		if ev.Kind == events.KindStoreUpdated && ev.Entity == domain.EntityTask {
			a.dashboard.RefreshCounts()
		}
	})
	return nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// close runs the registered closers in reverse order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
