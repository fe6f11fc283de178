package mapper

import (
	"time"

	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/core/domain"
)

func ToProjectItems(projects []domain.Project) []dto.ProjectItem {
	items := make([]dto.ProjectItem, 0, len(projects))
	for _, project := range projects {
		items = append(items, ToProjectItem(project))
	}
	return items
}

func ToProjectItem(project domain.Project) dto.ProjectItem {
	item := dto.ProjectItem{
		ID:        project.ID(),
		Pending:   project.Ref.IsPending(),
		Name:      project.Name,
		Color:     project.Color,
		CreatedAt: project.CreatedAt.Format(time.RFC3339),
		UpdatedAt: project.UpdatedAt.Format(time.RFC3339),
	}
	if project.Description != nil {
		value := *project.Description
		item.Description = &value
	}
	return item
}
