//go:build integration
// +build integration

package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dbadapter "taskcraftify/internal/adapter/db"
	"taskcraftify/internal/adapter/feed"
	httpadapter "taskcraftify/internal/adapter/http"
	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/adapter/http/handlers"
	"taskcraftify/internal/app/events"
	"taskcraftify/internal/app/reconcile"
	appservice "taskcraftify/internal/app/service"
	"taskcraftify/internal/app/store"
	"taskcraftify/internal/app/transition"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type TasksIntegrationSuite struct {
	IntegrationSuiteBase
	router   *gin.Engine
	tasks    *store.TaskStore
	projects *store.ProjectStore
	clock    *clock.Fake
}

func TestTasksIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TasksIntegrationSuite))
}

func (s *TasksIntegrationSuite) SetupTest() {
	s.ResetDatabase()
	s.seedTasks("Write changelog", "Review PR", "Deploy")

	s.clock = clock.NewFake(time.Now())
	bus := events.NewBus()
	deps := store.Deps{Clock: s.clock, Bus: bus, Logger: zap.NewNop()}
	s.tasks = store.NewTaskStore(dbadapter.NewTaskRepository(s.DB), deps, categorize.Options{Location: time.UTC})
	s.projects = store.NewProjectStore(dbadapter.NewProjectRepository(s.DB), deps)
	s.Require().NoError(s.tasks.Load(context.Background()))
	s.Require().NoError(s.projects.Load(context.Background()))

	dashboard := appservice.NewDashboard(s.tasks, s.clock, bus)
	controller := transition.NewController(s.tasks, s.clock, bus, dashboard, transition.Config{}, zap.NewNop())
	s.T().Cleanup(controller.Close)

	router := gin.New()
	healthHandler := handlers.NewHealthHandler(s.DB, map[string]handlers.Sizer{"tasks": s.tasks, "projects": s.projects})
	taskHandler := handlers.NewTaskHandler(appservice.NewTaskService(s.tasks, controller), s.clock, time.UTC)
	projectHandler := handlers.NewProjectHandler(appservice.NewProjectService(s.projects))
	httpadapter.RegisterRoutes(router, healthHandler, taskHandler, projectHandler)

	s.router = router
}

func (s *TasksIntegrationSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *TasksIntegrationSuite) TestGetTasks_NewestFirst() {
	rec := s.do(http.MethodGet, "/api/tasks", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 3)
	for _, item := range got {
		s.Require().NotEmpty(item.ID)
		s.Require().False(item.Pending)
		s.Require().Equal([]string{"seed"}, item.Tags)
	}
	s.Require().Equal("Deploy", got[0].Title)
}

func (s *TasksIntegrationSuite) TestCreateUpdateDelete_RoundTrip() {
	rec := s.do(http.MethodPost, "/api/tasks", `{"title":"Plan Q4","priority":"high","due_date":"2026-12-01","tags":["planning"]}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Require().False(created.Pending)
	s.Require().Equal("2026-12-01", *created.DueDate)
	s.Require().Equal(4, s.tasks.Len())

	rec = s.do(http.MethodPatch, "/api/tasks/"+created.ID, `{"due_date":null,"status":"in_progress"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var row struct {
		Status  string  `db:"status"`
		DueDate *string `db:"due_date"`
	}
	s.Require().NoError(s.DB.Get(&row, "SELECT status, due_date FROM tasks WHERE id = ?", created.ID))
	s.Require().Equal("in_progress", row.Status)
	s.Require().Nil(row.DueDate)

	rec = s.do(http.MethodDelete, "/api/tasks/"+created.ID, "")
	s.Require().Equal(http.StatusNoContent, rec.Code)
	s.Require().Equal(3, s.tasks.Len())

	rec = s.do(http.MethodDelete, "/api/tasks/"+created.ID, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *TasksIntegrationSuite) TestUpdateMissingRow_RollsBack() {
	var id string
	s.Require().NoError(s.DB.Get(&id, "SELECT CAST(id AS CHAR) FROM tasks WHERE title = 'Review PR'"))
	_, err := s.DB.Exec("DELETE FROM tasks WHERE id = ?", id)
	s.Require().NoError(err)

	rec := s.do(http.MethodPatch, "/api/tasks/"+id, `{"title":"Review PR again"}`)
	s.Require().Equal(http.StatusNotFound, rec.Code)

	task, ok := s.tasks.GetByID(id)
	s.Require().True(ok)
	s.Require().Equal("Review PR", task.Title)
}

func (s *TasksIntegrationSuite) TestToggle_CompleteThenRemovedAfterAnimation() {
	var id string
	s.Require().NoError(s.DB.Get(&id, "SELECT CAST(id AS CHAR) FROM tasks WHERE title = 'Deploy'"))

	rec := s.do(http.MethodPost, "/api/tasks/"+id+"/toggle", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.ToggleResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("complete", got.Transition)
	s.Require().Equal("done", got.Task.Status)

	s.clock.Advance(time.Second)

	rec = s.do(http.MethodGet, "/api/tasks", "")
	var listed []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &listed))
	s.Require().Len(listed, 2)
}

func (s *TasksIntegrationSuite) TestPollerFeed_ReconcilesForeignWrites() {
	poller, err := feed.NewPoller(s.DB, feed.TableTasks, time.Hour, zap.NewNop())
	s.Require().NoError(err)
	reconciler := reconcile.New[domain.Task](s.tasks, s.tasks, poller, zap.NewNop())
	reconciler.Start()
	defer reconciler.Stop()

	// The first poll only records the baseline.
	s.Require().Eventually(func() bool { return !poller.Poll(context.Background()) }, time.Second, 10*time.Millisecond)

	s.seedTasks("Written by another client")
	s.Require().True(poller.Poll(context.Background()))

	s.Require().Eventually(func() bool { return s.tasks.Len() == 4 }, 2*time.Second, 10*time.Millisecond)
}

func (s *TasksIntegrationSuite) TestProjects_DeleteLeavesTaskReference() {
	rec := s.do(http.MethodPost, "/api/projects", `{"name":"Launch","color":"teal"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var project dto.ProjectItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &project))

	rec = s.do(http.MethodPost, "/api/tasks", `{"title":"Press kit","project_id":"`+project.ID+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var task dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &task))

	rec = s.do(http.MethodDelete, "/api/projects/"+project.ID, "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/tasks/"+task.ID, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(project.ID, *got.ProjectID)
}
