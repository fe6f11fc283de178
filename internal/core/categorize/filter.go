package categorize

import (
	"slices"
	"strings"
	"time"

	"taskcraftify/internal/core/domain"
)

// Filter returns the tasks matching spec, preserving input order.
func Filter(tasks []domain.Task, spec domain.FilterSpec, loc *time.Location) []domain.Task {
	if loc == nil {
		loc = time.Local
	}
	query := strings.ToLower(spec.SearchQuery)

	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if matches(task, spec, query, loc) {
			out = append(out, task)
		}
	}
	return out
}

// Matches reports whether a single task satisfies every present constraint.
func Matches(task domain.Task, spec domain.FilterSpec, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	return matches(task, spec, strings.ToLower(spec.SearchQuery), loc)
}

func matches(task domain.Task, spec domain.FilterSpec, query string, loc *time.Location) bool {
	if len(spec.Statuses) > 0 && !slices.Contains(spec.Statuses, task.Status) {
		return false
	}
	if len(spec.Priorities) > 0 && !slices.Contains(spec.Priorities, task.Priority) {
		return false
	}
	if len(spec.Tags) > 0 && !sharesTag(task.Tags, spec.Tags) {
		return false
	}
	if query != "" && !containsQuery(task, query) {
		return false
	}
	if spec.ProjectID != nil && !sameProject(task.ProjectID, *spec.ProjectID) {
		return false
	}
	if task.HasDueDate() {
		due := startOfDay(*task.DueDate, loc)
		if spec.DueDateFrom != nil && !spec.DueDateFrom.IsZero() && due.Before(startOfDay(*spec.DueDateFrom, loc)) {
			return false
		}
		if spec.DueDateTo != nil && !spec.DueDateTo.IsZero() && due.After(startOfDay(*spec.DueDateTo, loc)) {
			return false
		}
	}
	return true
}

func sharesTag(have, want []string) bool {
	for _, tag := range want {
		if slices.Contains(have, tag) {
			return true
		}
	}
	return false
}

func containsQuery(task domain.Task, query string) bool {
	if strings.Contains(strings.ToLower(task.Title), query) {
		return true
	}
	return task.Description != nil && strings.Contains(strings.ToLower(*task.Description), query)
}

func sameProject(have *string, want string) bool {
	if want == "" {
		return have == nil || *have == ""
	}
	return have != nil && *have == want
}
