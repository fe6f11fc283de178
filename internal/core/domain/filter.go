package domain

import "time"

// FilterSpec holds optional task constraints. A nil or empty field places no
// constraint on that attribute.
type FilterSpec struct {
	Statuses    []TaskStatus
	Priorities  []TaskPriority
	Tags        []string
	SearchQuery string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	// ProjectID set to "" selects tasks without a project.
	ProjectID *string
}
