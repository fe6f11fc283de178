package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"taskcraftify/internal/core/domain"
	"taskcraftify/internal/core/ports"
)

const taskColumns = `id, title, description, status, priority, due_date, tags, project_id, created_at, updated_at`

const (
	listTasksQuery   = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`
	getTaskQuery     = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	insertTaskQuery  = `INSERT INTO tasks (title, description, status, priority, due_date, tags, project_id) VALUES (?, ?, ?, ?, ?, ?, ?)`
	deleteTaskQuery  = `DELETE FROM tasks WHERE id = ?`
	touchTaskSetting = `updated_at = CURRENT_TIMESTAMP(6)`
)

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          uint64             `db:"id"`
	Title       string             `db:"title"`
	Description sql.NullString     `db:"description"`
	Status      string             `db:"status"`
	Priority    string             `db:"priority"`
	DueDate     sql.NullTime       `db:"due_date"`
	Tags        types.NullJSONText `db:"tags"`
	ProjectID   sql.NullInt64      `db:"project_id"`
	CreatedAt   time.Time          `db:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) FetchAll(ctx context.Context) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listTasksQuery); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	tags, err := encodeTags(draft.Tags)
	if err != nil {
		return domain.Task{}, err
	}
	projectID, err := parseProjectID(draft.ProjectID)
	if err != nil {
		return domain.Task{}, err
	}

	res, err := r.db.ExecContext(ctx, insertTaskQuery,
		draft.Title,
		nullString(draft.Description),
		string(draft.Status),
		string(draft.Priority),
		nullTime(draft.DueDate),
		tags,
		projectID,
	)
	if err != nil {
		return domain.Task{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, err
	}

	return r.get(ctx, uint64(id))
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	taskID, err := parseTaskID(id)
	if err != nil {
		return domain.Task{}, err
	}

	settings := make([]string, 0, 8)
	args := make([]any, 0, 8)
	set := func(column string, value any) {
		settings = append(settings, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.DescriptionSet {
		set("description", nullString(patch.Description))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.DueDateSet {
		set("due_date", nullTime(patch.DueDate))
	}
	if patch.Tags != nil {
		tags, err := encodeTags(*patch.Tags)
		if err != nil {
			return domain.Task{}, err
		}
		set("tags", tags)
	}
	if patch.ProjectIDSet {
		projectID, err := parseProjectID(patch.ProjectID)
		if err != nil {
			return domain.Task{}, err
		}
		set("project_id", projectID)
	}
	if len(settings) == 0 {
		return domain.Task{}, domain.ErrEmptyPatch
	}
	settings = append(settings, touchTaskSetting)

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(settings, ", "))
	args = append(args, taskID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Task{}, err
	}

	// MySQL reports zero affected rows for a no-op update, so existence is
	// checked by reading the row back.
	return r.get(ctx, taskID)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	taskID, err := parseTaskID(id)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, deleteTaskQuery, taskID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) get(ctx context.Context, id uint64) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRowToDomainTask(row)
}

func mapTaskRowToDomainTask(row taskRow) (domain.Task, error) {
	task := domain.Task{
		Ref:       domain.Confirmed(strconv.FormatUint(row.ID, 10)),
		Title:     row.Title,
		Status:    domain.TaskStatus(row.Status),
		Priority:  domain.TaskPriority(row.Priority),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}

	if row.Tags.Valid {
		var tags []string
		if err := row.Tags.JSONText.Unmarshal(&tags); err != nil {
			return domain.Task{}, fmt.Errorf("decode tags of task %d: %w", row.ID, err)
		}
		task.Tags = tags
	}

	if row.ProjectID.Valid {
		value := strconv.FormatInt(row.ProjectID.Int64, 10)
		task.ProjectID = &value
	}

	return task, nil
}

func parseTaskID(id string) (uint64, error) {
	value, err := strconv.ParseUint(id, 10, 64)
	if err != nil || value == 0 {
		return 0, domain.ErrTaskNotFound
	}
	return value, nil
}

func parseProjectID(id *string) (sql.NullInt64, error) {
	if id == nil {
		return sql.NullInt64{}, nil
	}
	value, err := strconv.ParseInt(*id, 10, 64)
	if err != nil || value <= 0 {
		return sql.NullInt64{}, domain.ErrProjectNotFound
	}
	return sql.NullInt64{Int64: value, Valid: true}, nil
}

func encodeTags(tags []string) (types.NullJSONText, error) {
	if tags == nil {
		return types.NullJSONText{}, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return types.NullJSONText{}, err
	}
	return types.NullJSONText{JSONText: types.JSONText(raw), Valid: true}, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil || value.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
