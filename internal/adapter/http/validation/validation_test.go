package validation

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/core/domain"
)

func decode(t *testing.T, body string, into any) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), into))
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestBuildCreateTaskInput(t *testing.T) {
	var req dto.CreateTaskRequest
	raw := decode(t, `{"title":"  Plan sprint ","due_date":"2026-10-22","tags":["ops"," ops","",  "planning"],"project_id":" 4 "}`, &req)

	draft, err := BuildCreateTaskInput(req, raw, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "Plan sprint", draft.Title)
	assert.Equal(t, domain.TaskStatusTodo, draft.Status)
	assert.Equal(t, domain.TaskPriorityMedium, draft.Priority)
	assert.Equal(t, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), *draft.DueDate)
	assert.Equal(t, []string{"ops", "planning"}, draft.Tags)
	assert.Equal(t, "4", *draft.ProjectID)
}

func TestBuildCreateTaskInput_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"blank title":   `{"title":"   "}`,
		"null status":   `{"title":"x","status":null}`,
		"null priority": `{"title":"x","priority":null}`,
		"bad due date":  `{"title":"x","due_date":"22/10/2026"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var req dto.CreateTaskRequest
			raw := decode(t, body, &req)
			_, err := BuildCreateTaskInput(req, raw, time.UTC)
			assert.ErrorIs(t, err, ErrInvalidTaskPayload)
		})
	}
}

func TestBuildUpdateTaskInput_ClearsNullableFields(t *testing.T) {
	var req dto.UpdateTaskRequest
	raw := decode(t, `{"description":null,"due_date":null,"project_id":null,"tags":null}`, &req)

	patch, err := BuildUpdateTaskInput("9", req, raw, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "9", patch.ID)
	assert.True(t, patch.DescriptionSet)
	assert.Nil(t, patch.Description)
	assert.True(t, patch.DueDateSet)
	assert.Nil(t, patch.DueDate)
	assert.True(t, patch.ProjectIDSet)
	assert.Nil(t, patch.ProjectID)
	require.NotNil(t, patch.Tags)
	assert.Empty(t, *patch.Tags)
	assert.Nil(t, patch.Title)
}

func TestBuildUpdateTaskInput_SetsFields(t *testing.T) {
	var req dto.UpdateTaskRequest
	raw := decode(t, `{"title":" New ","status":"done","priority":"urgent","due_date":"2026-11-01"}`, &req)

	patch, err := BuildUpdateTaskInput("9", req, raw, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "New", *patch.Title)
	assert.Equal(t, domain.TaskStatusDone, *patch.Status)
	assert.Equal(t, domain.TaskPriorityUrgent, *patch.Priority)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), *patch.DueDate)
	assert.False(t, patch.DescriptionSet)
	assert.Nil(t, patch.Tags)
}

func TestBuildUpdateTaskInput_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"no fields":     `{"unknown":1}`,
		"blank title":   `{"title":" "}`,
		"null title":    `{"title":null}`,
		"null status":   `{"status":null}`,
		"bad due date":  `{"due_date":"tomorrow"}`,
		"null priority": `{"priority":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			var req dto.UpdateTaskRequest
			raw := decode(t, body, &req)
			_, err := BuildUpdateTaskInput("1", req, raw, time.UTC)
			assert.ErrorIs(t, err, ErrInvalidTaskPayload)
		})
	}
}

func TestBuildProjectInputs(t *testing.T) {
	draft, err := BuildCreateProjectInput(dto.CreateProjectRequest{Name: " Launch ", Color: " teal "})
	require.NoError(t, err)
	assert.Equal(t, "Launch", draft.Name)
	assert.Equal(t, "teal", draft.Color)

	_, err = BuildCreateProjectInput(dto.CreateProjectRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidProjectPayload)

	var req dto.UpdateProjectRequest
	raw := decode(t, `{"name":"Relaunch","description":null}`, &req)
	patch, err := BuildUpdateProjectInput("2", req, raw)
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", *patch.Name)
	assert.True(t, patch.DescriptionSet)
	assert.Nil(t, patch.Color)

	req = dto.UpdateProjectRequest{}
	raw = decode(t, `{"name":null}`, &req)
	_, err = BuildUpdateProjectInput("2", req, raw)
	assert.ErrorIs(t, err, ErrInvalidProjectPayload)
}

func TestBuildFilterSpec(t *testing.T) {
	query := url.Values{
		"status":   {"todo,in_progress", "backlog"},
		"priority": {"high"},
		"tag":      {"ops, ,infra"},
		"q":        {"deploy "},
		"due_from": {"2026-10-01"},
		"due_to":   {"2026-10-31"},
		"project":  {"none"},
	}

	spec, err := BuildFilterSpec(query, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []domain.TaskStatus{domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusBacklog}, spec.Statuses)
	assert.Equal(t, []domain.TaskPriority{domain.TaskPriorityHigh}, spec.Priorities)
	assert.Equal(t, []string{"ops", "infra"}, spec.Tags)
	assert.Equal(t, "deploy ", spec.SearchQuery)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *spec.DueDateFrom)
	assert.Equal(t, time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), *spec.DueDateTo)
	require.NotNil(t, spec.ProjectID)
	assert.Equal(t, "", *spec.ProjectID)
}

func TestBuildFilterSpec_EmptyAndInvalid(t *testing.T) {
	spec, err := BuildFilterSpec(url.Values{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, domain.FilterSpec{}, spec)

	for _, query := range []url.Values{
		{"status": {"finished"}},
		{"priority": {"critical"}},
		{"due_from": {"soon"}},
	} {
		_, err := BuildFilterSpec(query, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidFilter)
	}
}
