package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskcraftify/internal/app/events"
	"taskcraftify/internal/app/service"
	"taskcraftify/internal/app/store"
	"taskcraftify/internal/app/transition"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

type portMock[E any, D any, P any] struct {
	mock.Mock
}

func (m *portMock[E, D, P]) FetchAll(ctx context.Context) ([]E, error) {
	args := m.Called(ctx)
	return args.Get(0).([]E), args.Error(1)
}

func (m *portMock[E, D, P]) Create(ctx context.Context, draft D) (E, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(E), args.Error(1)
}

func (m *portMock[E, D, P]) Update(ctx context.Context, id string, patch P) (E, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(E), args.Error(1)
}

func (m *portMock[E, D, P]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type taskPort = portMock[domain.Task, domain.TaskDraft, domain.TaskPatch]

func task(id string, status domain.TaskStatus, due *time.Time) domain.Task {
	return domain.Task{
		Ref:       domain.Confirmed(id),
		Title:     "task " + id,
		Status:    status,
		Priority:  domain.TaskPriorityLow,
		DueDate:   due,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		UpdatedAt: now.Add(-10 * 24 * time.Hour),
	}
}

func setup(t *testing.T, seed ...domain.Task) (*service.TaskService, *service.Dashboard, *taskPort, *clock.Fake, *events.Recorder) {
	t.Helper()
	port := new(taskPort)
	fake := clock.NewFake(now)
	bus := events.NewBus()
	recorder := &events.Recorder{}
	bus.Subscribe(recorder.Record)

	tasks := store.NewTaskStore(port, store.Deps{Clock: fake, Bus: bus, Logger: zap.NewNop()}, categorize.Options{Location: time.UTC})
	tasks.Replace(seed)
	dashboard := service.NewDashboard(tasks, fake, bus)
	controller := transition.NewController(tasks, fake, bus, dashboard, transition.Config{}, zap.NewNop())
	t.Cleanup(controller.Close)

	return service.NewTaskService(tasks, controller), dashboard, port, fake, recorder
}

func TestTaskService_ListHidesRemovedTasks(t *testing.T) {
	svc, _, port, fake, _ := setup(t, task("1", domain.TaskStatusTodo, nil), task("2", domain.TaskStatusTodo, nil))
	done := task("1", domain.TaskStatusDone, nil)
	port.On("Update", mock.Anything, "1", domain.StatusPatch("1", domain.TaskStatusDone)).Return(done, nil).Once()

	res, err := svc.ToggleCompletion(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "complete", res.Transition)
	assert.Equal(t, "pending_complete", res.State)
	assert.Equal(t, domain.TaskStatusDone, res.Task.Status)

	listed, err := svc.ListTasks(context.Background(), domain.FilterSpec{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	fake.Advance(time.Second)
	listed, err = svc.ListTasks(context.Background(), domain.FilterSpec{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "2", listed[0].ID())
}

func TestTaskService_UndoRefreshesDashboard(t *testing.T) {
	due := now
	svc, dashboard, port, fake, recorder := setup(t, task("1", domain.TaskStatusTodo, &due))
	port.On("Update", mock.Anything, "1", domain.StatusPatch("1", domain.TaskStatusDone)).
		Return(task("1", domain.TaskStatusDone, &due), nil).Once()
	port.On("Update", mock.Anything, "1", domain.StatusPatch("1", domain.TaskStatusTodo)).
		Return(task("1", domain.TaskStatusTodo, &due), nil).Once()

	_, err := svc.ToggleCompletion(context.Background(), "1")
	require.NoError(t, err)
	fake.Advance(50 * time.Millisecond)
	res, err := svc.ToggleCompletion(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "undo", res.Transition)

	counts, refreshedAt := dashboard.Counts()
	assert.Equal(t, 1, counts[categorize.CategoryToday])
	assert.Equal(t, now.Add(50*time.Millisecond), refreshedAt)
	assert.Len(t, recorder.OfKind(events.KindCountsRefreshed), 1)
}

func TestTaskService_DeleteFailureSurfacesMutationError(t *testing.T) {
	svc, _, port, _, _ := setup(t, task("1", domain.TaskStatusTodo, nil))
	port.On("Delete", mock.Anything, "1").Return(errors.New("locked")).Once()

	err := svc.DeleteTask(context.Background(), "1")
	var mErr *store.MutationError
	require.ErrorAs(t, err, &mErr)

	got, err := svc.GetTask(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, task("1", domain.TaskStatusTodo, nil), got)

	_, err = svc.GetTask(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestProjectService_DeleteKeepsTaskReferences(t *testing.T) {
	projectPort := new(portMock[domain.Project, domain.ProjectDraft, domain.ProjectPatch])
	projects := store.NewProjectStore(projectPort, store.Deps{Logger: zap.NewNop()})
	projects.Replace([]domain.Project{{Ref: domain.Confirmed("p1"), Name: "Launch", Color: "teal"}})
	projectPort.On("Delete", mock.Anything, "p1").Return(nil).Once()

	linked := task("1", domain.TaskStatusTodo, nil)
	projectID := "p1"
	linked.ProjectID = &projectID
	tasks, _, _, _, _ := setup(t, linked)

	svc := service.NewProjectService(projects)
	require.NoError(t, svc.DeleteProject(context.Background(), "p1"))

	listed, err := svc.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)

	got, err := tasks.GetTask(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, "p1", *got.ProjectID)
}
