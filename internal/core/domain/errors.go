package domain

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrEmptyTitle      = errors.New("task title is required")
	ErrEmptyName       = errors.New("project name is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrMissingID       = errors.New("missing entity id")
	ErrEmptyPatch      = errors.New("patch has no fields")
	ErrEntityPending   = errors.New("entity is not confirmed yet")
)
