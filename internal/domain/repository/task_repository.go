package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"taskboard/internal/common"
	"taskboard/internal/domain/model"
)

// TaskFilter narrows a listing. Empty values mean no filter; values are
// validated against the enums before they reach the repository.
type TaskFilter struct {
	Status   model.TaskStatus
	Priority model.TaskPriority
}

// TaskUpdate carries a partial update. Nil means the field was not supplied.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID int64, f TaskFilter, limit, offset int) ([]model.Task, int, error)
	Update(ctx context.Context, id, ownerID int64, upd TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, id, ownerID int64) error
	ListAll(ctx context.Context, limit, offset int) ([]model.TaskWithOwner, int, error)
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, user_id, created_at, updated_at`

func (r *pgTaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (title, description, status, priority, user_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.UserID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create: %w", common.TranslateDBError(err))
	}
	return nil
}

func (r *pgTaskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.UserID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByIDAndOwner: %w", err)
	}
	return task, nil
}

// The four filter combinations map to four fixed statements rather than a
// dynamically assembled WHERE clause.
var taskListVariants = map[[2]bool]struct{ list, count string }{
	{false, false}: {
		list:  `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		count: `SELECT COUNT(*) FROM tasks WHERE user_id = $1`,
	},
	{true, false}: {
		list:  `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		count: `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2`,
	},
	{false, true}: {
		list:  `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND priority = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		count: `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND priority = $2`,
	},
	{true, true}: {
		list:  `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND status = $2 AND priority = $3 ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		count: `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2 AND priority = $3`,
	},
}

func (r *pgTaskRepository) ListByOwner(ctx context.Context, ownerID int64, f TaskFilter, limit, offset int) ([]model.Task, int, error) {
	variant := taskListVariants[[2]bool{f.Status != "", f.Priority != ""}]

	filterArgs := []interface{}{ownerID}
	if f.Status != "" {
		filterArgs = append(filterArgs, f.Status)
	}
	if f.Priority != "" {
		filterArgs = append(filterArgs, f.Priority)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, variant.count, filterArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgTaskRepository.ListByOwner count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, variant.list, append(filterArgs, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTaskRepository.ListByOwner query: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgTaskRepository.ListByOwner scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgTaskRepository.ListByOwner rows.Err: %w", err)
	}
	return tasks, total, nil
}

// Update applies the supplied fields in one fixed COALESCE statement. The
// owner check is part of the WHERE clause so a non-owner sees the same
// not-found result as a missing row.
func (r *pgTaskRepository) Update(ctx context.Context, id, ownerID int64, upd TaskUpdate) (*model.Task, error) {
	query := `UPDATE tasks SET
	            title       = COALESCE($1, title),
	            description = COALESCE($2, description),
	            status      = COALESCE($3, status),
	            priority    = COALESCE($4, priority),
	            updated_at  = CURRENT_TIMESTAMP
	          WHERE id = $5 AND user_id = $6
	          RETURNING ` + taskColumns
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query,
		upd.Title, upd.Description, upd.Status, upd.Priority, id, ownerID,
	).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.UserID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.Update: %w", common.TranslateDBError(err))
	}
	return task, nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) ListAll(ctx context.Context, limit, offset int) ([]model.TaskWithOwner, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgTaskRepository.ListAll count: %w", err)
	}

	query := `SELECT t.id, t.title, t.description, t.status, t.priority, t.user_id,
	                 t.created_at, t.updated_at,
	                 u.email, u.first_name, u.last_name
	          FROM tasks t
	          JOIN users u ON t.user_id = u.id
	          ORDER BY t.created_at DESC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTaskRepository.ListAll query: %w", err)
	}
	defer rows.Close()

	tasks := []model.TaskWithOwner{}
	for rows.Next() {
		var t model.TaskWithOwner
		var firstName, lastName string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt,
			&t.UserEmail, &firstName, &lastName); err != nil {
			return nil, 0, fmt.Errorf("pgTaskRepository.ListAll scan: %w", err)
		}
		t.UserName = firstName + " " + lastName
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgTaskRepository.ListAll rows.Err: %w", err)
	}
	return tasks, total, nil
}
