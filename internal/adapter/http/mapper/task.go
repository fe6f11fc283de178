package mapper

import (
	"slices"
	"time"

	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/core/categorize"
	"taskcraftify/internal/core/domain"
)

const DateLayout = "2006-01-02"

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID(),
		Pending:   task.Ref.IsPending(),
		Title:     task.Title,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		Tags:      []string{},
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.HasDueDate() {
		value := task.DueDate.Format(DateLayout)
		item.DueDate = &value
	}

	if len(task.Tags) > 0 {
		item.Tags = slices.Clone(task.Tags)
	}

	if task.ProjectID != nil {
		value := *task.ProjectID
		item.ProjectID = &value
	}

	return item
}

// ToCategoriesResponse lists every category, empty ones included.
func ToCategoriesResponse(result categorize.Result) dto.CategoriesResponse {
	out := dto.CategoriesResponse{
		Counts:  make(map[string]int, len(categorize.All)),
		Buckets: make(map[string][]dto.TaskItem, len(categorize.All)),
	}
	for _, category := range categorize.All {
		out.Counts[string(category)] = result.Counts[category]
		out.Buckets[string(category)] = ToTaskItems(result.Buckets[category])
	}
	return out
}
