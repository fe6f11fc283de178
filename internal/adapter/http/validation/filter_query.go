package validation

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"taskcraftify/internal/core/domain"
)

// NoProject is the project query value selecting tasks without a project.
const NoProject = "none"

var ErrInvalidFilter = errors.New("invalid filter")

// BuildFilterSpec reads a FilterSpec from list query parameters. Multi-valued
// parameters accept repeated keys and comma separated values.
//
//	status, priority, tag, q, due_from, due_to, project
func BuildFilterSpec(query url.Values, loc *time.Location) (domain.FilterSpec, error) {
	var spec domain.FilterSpec

	for _, value := range splitValues(query["status"]) {
		status := domain.TaskStatus(value)
		if !status.Valid() {
			return domain.FilterSpec{}, ErrInvalidFilter
		}
		spec.Statuses = append(spec.Statuses, status)
	}

	for _, value := range splitValues(query["priority"]) {
		priority := domain.TaskPriority(value)
		if !priority.Valid() {
			return domain.FilterSpec{}, ErrInvalidFilter
		}
		spec.Priorities = append(spec.Priorities, priority)
	}

	spec.Tags = splitValues(query["tag"])
	spec.SearchQuery = query.Get("q")

	var err error
	if spec.DueDateFrom, err = parseDay(query.Get("due_from"), loc); err != nil {
		return domain.FilterSpec{}, err
	}
	if spec.DueDateTo, err = parseDay(query.Get("due_to"), loc); err != nil {
		return domain.FilterSpec{}, err
	}

	if query.Has("project") {
		project := strings.TrimSpace(query.Get("project"))
		if project == NoProject {
			project = ""
		}
		spec.ProjectID = &project
	}

	return spec, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseDay(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, ErrInvalidFilter
	}
	return &day, nil
}
