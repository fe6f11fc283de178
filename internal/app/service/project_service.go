package service

import (
	"context"

	"taskcraftify/internal/app/store"
	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"
)

type ProjectService struct {
	projects *store.ProjectStore
}

func NewProjectService(projects *store.ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) ListProjects(_ context.Context) ([]domain.Project, error) {
	return s.projects.GetAll(), nil
}

func (s *ProjectService) CreateProject(ctx context.Context, draft domain.ProjectDraft) (domain.Project, error) {
	return s.projects.Create(ctx, draft)
}

func (s *ProjectService) UpdateProject(ctx context.Context, patch domain.ProjectPatch) (domain.Project, error) {
	return s.projects.Update(ctx, patch)
}

// DeleteProject leaves tasks that reference the project untouched.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

var _ ports.ProjectService = (*ProjectService)(nil)
