package ports

import (
	"context"
	"time"

	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
)

// Persistence is the remote system of record for one entity collection.
// Every call may fail and none is assumed idempotent.
type Persistence[E any, D any, P any] interface {
	FetchAll(ctx context.Context) ([]E, error)
	Create(ctx context.Context, draft D) (E, error)
	Update(ctx context.Context, id string, patch P) (E, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepository = Persistence[domain.Task, domain.TaskDraft, domain.TaskPatch]

type ProjectRepository = Persistence[domain.Project, domain.ProjectDraft, domain.ProjectPatch]

// ChangeFeed delivers payload-less "remote state may be stale" signals.
// The returned unsubscribe func must be safe to call more than once.
type ChangeFeed interface {
	Subscribe(onChange func()) (unsubscribe func())
}

// ToggleResult describes what a completion toggle did.
type ToggleResult struct {
	Task       domain.Task
	Transition string
	State      string
}

type TaskService interface {
	ListTasks(ctx context.Context, spec domain.FilterSpec) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error)
	UpdateTask(ctx context.Context, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleCompletion(ctx context.Context, id string) (ToggleResult, error)
	Categories(ctx context.Context, now time.Time) (categorize.Result, error)
}

type ProjectService interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, draft domain.ProjectDraft) (domain.Project, error)
	UpdateProject(ctx context.Context, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}
