package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const taskColumns = `id, user_id, title, description, due_date, priority, status, project,
	tags, connection_id, is_focus_task, focus_date, created_at, updated_at`

var taskFilters = map[string]string{
	"status":        "status",
	"is_focus_task": "is_focus_task",
	"priority":      "priority",
	"connection_id": "connection_id",
}

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, due_date, priority, status, project,
			tags, connection_id, is_focus_task, focus_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		t.OwnerID,
		t.Title,
		t.Description,
		t.DueDate,
		t.Priority,
		t.Status,
		t.Project,
		tagsArg(t.Tags),
		t.ConnectionID,
		t.IsFocusTask,
		t.FocusDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return mapErr(err)
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapErr(err)
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks SET
			title = $3, description = $4, due_date = $5, priority = $6, status = $7,
			project = $8, tags = $9, connection_id = $10, is_focus_task = $11,
			focus_date = $12, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		t.DueDate,
		t.Priority,
		t.Status,
		t.Project,
		tagsArg(t.Tags),
		t.ConnectionID,
		t.IsFocusTask,
		t.FocusDate,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	return mapErr(err)
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(res)
}

func (r *TaskRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Task, error) {
	query, args, err := listQuery("tasks", taskColumns, taskFilters, ownerID, filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*entity.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Priority,
		&t.Status,
		&t.Project,
		pq.Array(&t.Tags),
		&t.ConnectionID,
		&t.IsFocusTask,
		&t.FocusDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
