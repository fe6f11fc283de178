package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/core/domain"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidTaskPayload    = errors.New("invalid task payload")
	ErrInvalidProjectPayload = errors.New("invalid project payload")
)

// BuildCreateTaskInput turns a bound request into a draft. Due dates are
// calendar days interpreted in loc.
func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage, loc *time.Location) (domain.TaskDraft, error) {
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.TaskDraft{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.TaskDraft{}, ErrInvalidTaskPayload
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.TaskDraft{}, ErrInvalidTaskPayload
	}

	draft := domain.TaskDraft{
		Title:       title,
		Description: req.Description,
		Tags:        normalizeTags(req.Tags),
		ProjectID:   trimmedOrNil(req.ProjectID),
	}
	if req.Status != nil {
		draft.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		draft.Priority = domain.TaskPriority(*req.Priority)
	}

	if req.DueDate != nil {
		parsedDueDate, err := time.ParseInLocation(dateLayout, *req.DueDate, loc)
		if err != nil {
			return domain.TaskDraft{}, ErrInvalidTaskPayload
		}
		draft.DueDate = &parsedDueDate
	}

	return draft.Normalize(), nil
}

func BuildUpdateTaskInput(id string, req dto.UpdateTaskRequest, raw map[string]json.RawMessage, loc *time.Location) (domain.TaskPatch, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}

	patch := domain.TaskPatch{ID: id}

	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		patch.Title = &value
	}

	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	if req.Status != nil {
		value := domain.TaskStatus(*req.Status)
		patch.Status = &value
	}

	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	if req.Priority != nil {
		value := domain.TaskPriority(*req.Priority)
		patch.Priority = &value
	}

	patch.DescriptionSet = hasJSONField(raw, "description")
	if patch.DescriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	patch.Description = req.Description

	patch.DueDateSet = hasJSONField(raw, "due_date")
	if patch.DueDateSet && !isJSONNull(raw["due_date"]) {
		if req.DueDate == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		parsedDueDate, err := time.ParseInLocation(dateLayout, *req.DueDate, loc)
		if err != nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		patch.DueDate = &parsedDueDate
	}

	if hasJSONField(raw, "tags") {
		tags := []string{}
		if req.Tags != nil {
			tags = normalizeTags(*req.Tags)
		}
		patch.Tags = &tags
	}

	patch.ProjectIDSet = hasJSONField(raw, "project_id")
	if patch.ProjectIDSet && !isJSONNull(raw["project_id"]) && req.ProjectID == nil {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	patch.ProjectID = trimmedOrNil(req.ProjectID)

	return patch, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "status") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "due_date") ||
		hasJSONField(raw, "tags") ||
		hasJSONField(raw, "project_id")
}

// normalizeTags trims, drops blanks and removes duplicates, keeping order.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
