package domain

import (
	"slices"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusArchived   TaskStatus = "archived"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	default:
		return false
	}
}

// Closed reports whether the status removes a task from every category.
func (s TaskStatus) Closed() bool {
	return s == TaskStatusDone || s == TaskStatusArchived
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

type Task struct {
	Ref         Ref
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	Tags        []string
	ProjectID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Task) ID() string {
	return t.Ref.ID()
}

// HasDueDate reports whether the task carries a usable due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// Clone returns a copy that shares no pointers or slices with t.
func (t Task) Clone() Task {
	out := t
	out.Description = cloneString(t.Description)
	out.ProjectID = cloneString(t.ProjectID)
	if t.DueDate != nil {
		value := *t.DueDate
		out.DueDate = &value
	}
	if t.Tags != nil {
		out.Tags = slices.Clone(t.Tags)
	}
	return out
}

// Apply merges the patch into a copy of t and bumps UpdatedAt to now.
// UpdatedAt never moves backwards.
func (t Task) Apply(p TaskPatch, now time.Time) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.DescriptionSet {
		out.Description = cloneString(p.Description)
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDateSet {
		out.DueDate = nil
		if p.DueDate != nil {
			value := *p.DueDate
			out.DueDate = &value
		}
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.ProjectIDSet {
		out.ProjectID = cloneString(p.ProjectID)
	}
	if now.After(out.UpdatedAt) {
		out.UpdatedAt = now
	}
	return out
}

type TaskDraft struct {
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	Tags        []string
	ProjectID   *string
}

// Normalize trims the title and fills default status and priority.
func (d TaskDraft) Normalize() TaskDraft {
	d.Title = strings.TrimSpace(d.Title)
	if d.Status == "" {
		d.Status = TaskStatusTodo
	}
	if d.Priority == "" {
		d.Priority = TaskPriorityMedium
	}
	return d
}

func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.Status != "" && !d.Status.Valid() {
		return ErrInvalidStatus
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// TaskPatch is a partial update of one task.
// nil pointer => no change; the *Set flags allow clearing nullable fields.
type TaskPatch struct {
	ID             string
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *TaskStatus
	Priority       *TaskPriority
	DueDate        *time.Time
	DueDateSet     bool
	Tags           *[]string
	ProjectID      *string
	ProjectIDSet   bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.DescriptionSet && p.Status == nil && p.Priority == nil &&
		!p.DueDateSet && p.Tags == nil && !p.ProjectIDSet
}

func (p TaskPatch) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.Empty() {
		return ErrEmptyPatch
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// StatusPatch builds a patch that only changes the status.
func StatusPatch(id string, status TaskStatus) TaskPatch {
	return TaskPatch{ID: id, Status: &status}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
