package tests

import (
	"context"
	"time"

	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type taskServiceMock struct {
	mock.Mock
}

var _ ports.TaskService = (*taskServiceMock)(nil)

func (m *taskServiceMock) ListTasks(ctx context.Context, spec domain.FilterSpec) ([]domain.Task, error) {
	args := m.Called(ctx, spec)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, patch domain.TaskPatch) (domain.Task, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *taskServiceMock) ToggleCompletion(ctx context.Context, id string) (ports.ToggleResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.ToggleResult), args.Error(1)
}

func (m *taskServiceMock) Categories(ctx context.Context, now time.Time) (categorize.Result, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(categorize.Result), args.Error(1)
}

type projectServiceMock struct {
	mock.Mock
}

var _ ports.ProjectService = (*projectServiceMock)(nil)

func (m *projectServiceMock) ListProjects(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)

	var projects []domain.Project
	if value := args.Get(0); value != nil {
		projects = value.([]domain.Project)
	}
	return projects, args.Error(1)
}

func (m *projectServiceMock) CreateProject(ctx context.Context, draft domain.ProjectDraft) (domain.Project, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Project), args.Error(1)
}

func (m *projectServiceMock) UpdateProject(ctx context.Context, patch domain.ProjectPatch) (domain.Project, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(domain.Project), args.Error(1)
}

func (m *projectServiceMock) DeleteProject(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
