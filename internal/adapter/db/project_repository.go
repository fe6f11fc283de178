package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"
)

const (
	listProjectsQuery  = `SELECT id, name, description, color, created_at, updated_at FROM projects ORDER BY created_at DESC, id DESC`
	getProjectQuery    = `SELECT id, name, description, color, created_at, updated_at FROM projects WHERE id = ?`
	insertProjectQuery = `INSERT INTO projects (name, description, color) VALUES (?, ?, ?)`
	deleteProjectQuery = `DELETE FROM projects WHERE id = ?`
)

type ProjectRepository struct {
	db *sqlx.DB
}

type projectRow struct {
	ID          uint64         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Color       string         `db:"color"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) FetchAll(ctx context.Context) ([]domain.Project, error) {
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, listProjectsQuery); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, mapProjectRowToDomainProject(row))
	}
	return projects, nil
}

func (r *ProjectRepository) Create(ctx context.Context, draft domain.ProjectDraft) (domain.Project, error) {
	res, err := r.db.ExecContext(ctx, insertProjectQuery, draft.Name, nullString(draft.Description), draft.Color)
	if err != nil {
		return domain.Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Project{}, err
	}
	return r.get(ctx, uint64(id))
}

func (r *ProjectRepository) Update(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, error) {
	projectID, err := strconv.ParseUint(id, 10, 64)
	if err != nil || projectID == 0 {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	var settings []string
	var args []any
	if patch.Name != nil {
		settings = append(settings, "name = ?")
		args = append(args, strings.TrimSpace(*patch.Name))
	}
	if patch.DescriptionSet {
		settings = append(settings, "description = ?")
		args = append(args, nullString(patch.Description))
	}
	if patch.Color != nil {
		settings = append(settings, "color = ?")
		args = append(args, *patch.Color)
	}
	if len(settings) == 0 {
		return domain.Project{}, domain.ErrEmptyPatch
	}
	settings = append(settings, "updated_at = CURRENT_TIMESTAMP(6)")
	args = append(args, projectID)

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = ?", strings.Join(settings, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Project{}, err
	}
	return r.get(ctx, projectID)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	projectID, err := strconv.ParseUint(id, 10, 64)
	if err != nil || projectID == 0 {
		return domain.ErrProjectNotFound
	}

	res, err := r.db.ExecContext(ctx, deleteProjectQuery, projectID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) get(ctx context.Context, id uint64) (domain.Project, error) {
	var row projectRow
	if err := r.db.GetContext(ctx, &row, getProjectQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, domain.ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	return mapProjectRowToDomainProject(row), nil
}

func mapProjectRowToDomainProject(row projectRow) domain.Project {
	project := domain.Project{
		Ref:       domain.Confirmed(strconv.FormatUint(row.ID, 10)),
		Name:      row.Name,
		Color:     row.Color,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Description.Valid {
		value := row.Description.String
		project.Description = &value
	}
	return project
}
