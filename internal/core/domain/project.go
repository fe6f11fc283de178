package domain

import (
	"strings"
	"time"
)

// Project is referenced weakly by Task.ProjectID; deleting one never
// cascades to its tasks.
type Project struct {
	Ref         Ref
	Name        string
	Description *string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Project) ID() string {
	return p.Ref.ID()
}

func (p Project) Clone() Project {
	out := p
	out.Description = cloneString(p.Description)
	return out
}

func (p Project) Apply(patch ProjectPatch, now time.Time) Project {
	out := p.Clone()
	if patch.Name != nil {
		out.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.DescriptionSet {
		out.Description = cloneString(patch.Description)
	}
	if patch.Color != nil {
		out.Color = *patch.Color
	}
	if now.After(out.UpdatedAt) {
		out.UpdatedAt = now
	}
	return out
}

type ProjectDraft struct {
	Name        string
	Description *string
	Color       string
}

func (d ProjectDraft) Normalize() ProjectDraft {
	d.Name = strings.TrimSpace(d.Name)
	return d
}

func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

type ProjectPatch struct {
	ID             string
	Name           *string
	Description    *string
	DescriptionSet bool
	Color          *string
}

func (p ProjectPatch) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.Name == nil && !p.DescriptionSet && p.Color == nil {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
