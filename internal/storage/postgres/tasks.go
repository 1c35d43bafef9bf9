package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the stores need, so a
// store can run against either the pool or a snapshot transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type taskStoreImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	db     querier
}

func NewTaskStore(logger zerolog.Logger, pgPool *pgxpool.Pool) storage.TaskStore {
	return &taskStoreImpl{
		logger: logger,
		pgPool: pgPool,
		db:     pgPool,
	}
}

const taskColumns = `id,
       title,
       description,
       priority,
       status,
       due_date,
       assigned_to,
       created_by,
       todo_checklist,
       progress,
       attachments,
       created_at,
       updated_at`

func (s *taskStoreImpl) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   priority,
                   status,
                   due_date,
                   assigned_to,
                   created_by,
                   todo_checklist,
                   progress,
                   attachments,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`
	_, err := s.db.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.DueDate,
		task.AssignedTo,
		task.CreatedBy,
		task.TodoChecklist,
		task.Progress,
		task.Attachments,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to insert task")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *taskStoreImpl) GetByID(ctx context.Context, id string) (*models.Task, error) {
	selectTaskQuery := `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	task, err := scanTask(s.db.QueryRow(ctx, selectTaskQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", id).
				Msg("task not found")
			return nil, storage.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *taskStoreImpl) Save(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title          = $1,
    description    = $2,
    priority       = $3,
    status         = $4,
    due_date       = $5,
    assigned_to    = $6,
    todo_checklist = $7,
    progress       = $8,
    attachments    = $9,
    updated_at     = $10
WHERE id = $11
`
	tag, err := s.db.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.DueDate,
		task.AssignedTo,
		task.TodoChecklist,
		task.Progress,
		task.Attachments,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", task.ID).
			Msg("task not found")
		return storage.ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *taskStoreImpl) Delete(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.db.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", id).
			Msg("task not found")
		return storage.ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskStoreImpl) List(ctx context.Context, filter storage.TaskFilter) ([]*models.Task, error) {
	where, args := taskFilterWhere(filter)
	selectTasksQuery := `
SELECT ` + taskColumns + `
FROM tasks
` + where + `
ORDER BY created_at DESC
`
	rows, err := s.db.Query(ctx, selectTasksQuery, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskStoreImpl) Count(ctx context.Context, filter storage.TaskFilter) (int64, error) {
	where, args := taskFilterWhere(filter)
	countTasksQuery := `
SELECT COUNT(*)
FROM tasks
` + where

	var count int64
	err := s.db.QueryRow(ctx, countTasksQuery, args...).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return 0, err
	}
	return count, nil
}

func (s *taskStoreImpl) CountByStatus(ctx context.Context, scope storage.VisibilityScope) (map[string]int64, error) {
	return s.countGrouped(ctx, "status", scope)
}

func (s *taskStoreImpl) CountByPriority(ctx context.Context, scope storage.VisibilityScope) (map[string]int64, error) {
	return s.countGrouped(ctx, "priority", scope)
}

func (s *taskStoreImpl) countGrouped(ctx context.Context, column string, scope storage.VisibilityScope) (map[string]int64, error) {
	where, args := taskFilterWhere(storage.TaskFilter{Scope: scope})
	countGroupedQuery := `
SELECT ` + column + `, COUNT(*)
FROM tasks
` + where + `
GROUP BY ` + column

	rows, err := s.db.Query(ctx, countGroupedQuery, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("column", column).
			Msg("failed to count grouped tasks")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		err = rows.Scan(&key, &count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan grouped count")
			return nil, err
		}
		counts[key] = count
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return counts, nil
}

func (s *taskStoreImpl) ListRecent(ctx context.Context, scope storage.VisibilityScope, limit int) ([]*models.Task, error) {
	where, args := taskFilterWhere(storage.TaskFilter{Scope: scope})
	args = append(args, limit)
	selectRecentQuery := `
SELECT ` + taskColumns + `
FROM tasks
` + where + `
ORDER BY created_at DESC
LIMIT $` + fmt.Sprint(len(args))

	rows, err := s.db.Query(ctx, selectRecentQuery, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select recent tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0, limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *taskStoreImpl) WithSnapshot(ctx context.Context, fn func(storage.TaskStore) error) error {
	tx, err := s.pgPool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin snapshot transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	snapshot := &taskStoreImpl{
		logger: s.logger,
		pgPool: s.pgPool,
		db:     tx,
	}
	err = fn(snapshot)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func taskFilterWhere(filter storage.TaskFilter) (string, []any) {
	var conds []string
	var args []any

	if userID, ok := filter.Scope.OwnedBy(); ok {
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("$%d = ANY (assigned_to)", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.NotStatus != "" {
		args = append(args, filter.NotStatus)
		conds = append(conds, fmt.Sprintf("status <> $%d", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		conds = append(conds, fmt.Sprintf("due_date < $%d", len(args)))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		conds = append(conds, fmt.Sprintf("due_date >= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.DueDate,
		&task.AssignedTo,
		&task.CreatedBy,
		&task.TodoChecklist,
		&task.Progress,
		&task.Attachments,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
