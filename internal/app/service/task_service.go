package service

import (
	"context"
	"time"

	"taskcraftify/internal/app/store"
	"taskcraftify/internal/app/transition"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"
)

type TaskService struct {
	tasks      *store.TaskStore
	controller *transition.Controller
}

func NewTaskService(tasks *store.TaskStore, controller *transition.Controller) *TaskService {
	return &TaskService{tasks: tasks, controller: controller}
}

// ListTasks returns the filtered active view; tasks whose exit animation
// finished are left out.
func (s *TaskService) ListTasks(_ context.Context, spec domain.FilterSpec) ([]domain.Task, error) {
	filtered := s.tasks.GetFiltered(spec)
	visible := make([]domain.Task, 0, len(filtered))
	for _, task := range filtered {
		if s.controller.Visible(task.ID()) {
			visible = append(visible, task)
		}
	}
	return visible, nil
}

func (s *TaskService) GetTask(_ context.Context, id string) (domain.Task, error) {
	task, ok := s.tasks.GetByID(id)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	return s.tasks.Create(ctx, draft)
}

func (s *TaskService) UpdateTask(ctx context.Context, patch domain.TaskPatch) (domain.Task, error) {
	return s.tasks.Update(ctx, patch)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.controller.Forget(id)
	return nil
}

func (s *TaskService) ToggleCompletion(ctx context.Context, id string) (ports.ToggleResult, error) {
	tr, err := s.controller.Toggle(ctx, id)
	task, _ := s.tasks.GetByID(id)
	return ports.ToggleResult{
		Task:       task,
		Transition: string(tr),
		State:      s.controller.State(id).String(),
	}, err
}

func (s *TaskService) Categories(_ context.Context, now time.Time) (categorize.Result, error) {
	return s.tasks.Categorize(now), nil
}

var _ ports.TaskService = (*TaskService)(nil)
