package store

import (
	"slices"
	"time"

	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"
)

type TaskSchema struct{}

func (TaskSchema) Kind() domain.EntityKind { return domain.EntityTask }

func (TaskSchema) NotFound() error { return domain.ErrTaskNotFound }

func (TaskSchema) Normalize(draft domain.TaskDraft) domain.TaskDraft { return draft.Normalize() }

func (TaskSchema) ValidateDraft(draft domain.TaskDraft) error { return draft.Validate() }

func (TaskSchema) ValidatePatch(patch domain.TaskPatch) error { return patch.Validate() }

func (TaskSchema) Target(patch domain.TaskPatch) string { return patch.ID }

func (TaskSchema) Placeholder(draft domain.TaskDraft, ref domain.Ref, now time.Time) domain.Task {
	task := domain.Task{
		Ref:       ref,
		Title:     draft.Title,
		Status:    draft.Status,
		Priority:  draft.Priority,
		Tags:      slices.Clone(draft.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if draft.Description != nil {
		value := *draft.Description
		task.Description = &value
	}
	if draft.DueDate != nil {
		value := *draft.DueDate
		task.DueDate = &value
	}
	if draft.ProjectID != nil {
		value := *draft.ProjectID
		task.ProjectID = &value
	}
	return task
}

func (TaskSchema) Ref(task domain.Task) domain.Ref { return task.Ref }

func (TaskSchema) Apply(task domain.Task, patch domain.TaskPatch, now time.Time) domain.Task {
	return task.Apply(patch, now)
}

func (TaskSchema) Clone(task domain.Task) domain.Task { return task.Clone() }

func (TaskSchema) Label(task domain.Task) string { return task.Title }

type ProjectSchema struct{}

func (ProjectSchema) Kind() domain.EntityKind { return domain.EntityProject }

func (ProjectSchema) NotFound() error { return domain.ErrProjectNotFound }

func (ProjectSchema) Normalize(draft domain.ProjectDraft) domain.ProjectDraft { return draft.Normalize() }

func (ProjectSchema) ValidateDraft(draft domain.ProjectDraft) error { return draft.Validate() }

func (ProjectSchema) ValidatePatch(patch domain.ProjectPatch) error { return patch.Validate() }

func (ProjectSchema) Target(patch domain.ProjectPatch) string { return patch.ID }

func (ProjectSchema) Placeholder(draft domain.ProjectDraft, ref domain.Ref, now time.Time) domain.Project {
	project := domain.Project{
		Ref:       ref,
		Name:      draft.Name,
		Color:     draft.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if draft.Description != nil {
		value := *draft.Description
		project.Description = &value
	}
	return project
}

func (ProjectSchema) Ref(project domain.Project) domain.Ref { return project.Ref }

func (ProjectSchema) Apply(project domain.Project, patch domain.ProjectPatch, now time.Time) domain.Project {
	return project.Apply(patch, now)
}

func (ProjectSchema) Clone(project domain.Project) domain.Project { return project.Clone() }

func (ProjectSchema) Label(project domain.Project) string { return project.Name }

// TaskStore adds the task-only selectors on top of the generic store.
type TaskStore struct {
	*Store[domain.Task, domain.TaskDraft, domain.TaskPatch]
	opts categorize.Options
}

func NewTaskStore(port ports.TaskRepository, deps Deps, opts categorize.Options) *TaskStore {
	return &TaskStore{
		Store: New[domain.Task, domain.TaskDraft, domain.TaskPatch](TaskSchema{}, port, deps),
		opts:  opts,
	}
}

// GetFiltered applies the filter predicate to the current snapshot.
func (s *TaskStore) GetFiltered(spec domain.FilterSpec) []domain.Task {
	return categorize.Filter(s.GetAll(), spec, s.opts.Location)
}

func (s *TaskStore) Categorize(now time.Time) categorize.Result {
	return categorize.Categorize(s.GetAll(), now, s.opts)
}

type ProjectStore = Store[domain.Project, domain.ProjectDraft, domain.ProjectPatch]

func NewProjectStore(port ports.ProjectRepository, deps Deps) *ProjectStore {
	return New[domain.Project, domain.ProjectDraft, domain.ProjectPatch](ProjectSchema{}, port, deps)
}
