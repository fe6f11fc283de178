package validation

import (
	"encoding/json"
	"strings"

	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/core/domain"
)

func BuildCreateProjectInput(req dto.CreateProjectRequest) (domain.ProjectDraft, error) {
	draft := domain.ProjectDraft{
		Name:        req.Name,
		Description: req.Description,
		Color:       strings.TrimSpace(req.Color),
	}.Normalize()
	if draft.Name == "" {
		return domain.ProjectDraft{}, ErrInvalidProjectPayload
	}
	return draft, nil
}

func BuildUpdateProjectInput(id string, req dto.UpdateProjectRequest, raw map[string]json.RawMessage) (domain.ProjectPatch, error) {
	if !hasJSONField(raw, "name") && !hasJSONField(raw, "description") && !hasJSONField(raw, "color") {
		return domain.ProjectPatch{}, ErrInvalidProjectPayload
	}

	patch := domain.ProjectPatch{ID: id}
	if hasJSONField(raw, "name") {
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			return domain.ProjectPatch{}, ErrInvalidProjectPayload
		}
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}

	patch.DescriptionSet = hasJSONField(raw, "description")
	if patch.DescriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.ProjectPatch{}, ErrInvalidProjectPayload
	}
	patch.Description = req.Description

	if hasJSONField(raw, "color") {
		if req.Color == nil {
			return domain.ProjectPatch{}, ErrInvalidProjectPayload
		}
		color := strings.TrimSpace(*req.Color)
		patch.Color = &color
	}
	return patch, nil
}
