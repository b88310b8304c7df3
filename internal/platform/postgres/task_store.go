package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// taskSelect reads tasks joined with their assigned user.
const taskSelect = `
	SELECT t.id, t.title, t.description, t.is_completed, t.due_date,
		t.assigned_user_id, t.created_at, t.updated_at,
		u.id, u.email, u.password, u.first_name, u.last_name, u.mobile_number,
		u.address, u.is_active, u.is_staff, u.date_joined
	FROM tasks t
	JOIN users u ON u.id = t.assigned_user_id`

var taskSearchColumns = []string{"t.title", "t.description"}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// Returns store.ErrAssignedUserNotFound if the assigned user doesn't exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("task_id", task.ID.String()),
			redact.ErrorAttr(err))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, is_completed, due_date,
			assigned_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.IsCompleted,
		task.DueDate,
		task.AssignedUserID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrAssignedUserNotFound) {
			log.Warn("task references a missing user",
				slog.String("task_id", task.ID.String()),
				slog.String("assigned_user_id", task.AssignedUserID.String()))
			return mapped
		}
		log.Error("failed to create task",
			slog.String("task_id", task.ID.String()),
			redact.ErrorAttr(err))
		return mapped
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("assigned_user_id", task.AssignedUserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("task_id", id.String()),
			redact.ErrorAttr(err))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// updated_at is computed by the database and written back to task.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("task_id", task.ID.String()),
			redact.ErrorAttr(err))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1,
			description = $2,
			is_completed = $3,
			due_date = $4,
			assigned_user_id = $5,
			updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		WHERE id = $6
		RETURNING updated_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		nullString(task.Description),
		task.IsCompleted,
		task.DueDate,
		task.AssignedUserID,
		task.ID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
			return store.ErrTaskNotFound
		}
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrAssignedUserNotFound) {
			log.Error("failed to update task",
				slog.String("task_id", task.ID.String()),
				redact.ErrorAttr(err))
		}
		return mapped
	}

	log.Info("task updated successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("task_id", id.String()),
			redact.ErrorAttr(err))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// Count implements store.TaskStore.Count
func (s *PostgresTaskStore) Count(ctx context.Context, search string) (int, error) {
	where, args := searchClause(search, taskSearchColumns...)

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			redact.ErrorAttr(err))
		return 0, MapError(err)
	}
	return count, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, search string, limit, offset int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := searchClause(search, taskSearchColumns...)
	n := len(args)
	query := fmt.Sprintf(`%s%s ORDER BY t.created_at, t.id LIMIT $%d OFFSET $%d`,
		taskSelect, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", redact.ErrorAttr(err))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", redact.ErrorAttr(err))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", redact.ErrorAttr(err))
		return nil, MapError(err)
	}

	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		owner       domain.User
		description sql.NullString
		mobile      sql.NullString
		address     sql.NullString
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.IsCompleted,
		&task.DueDate,
		&task.AssignedUserID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&owner.ID,
		&owner.Email,
		&owner.HashedPassword,
		&owner.FirstName,
		&owner.LastName,
		&mobile,
		&address,
		&owner.IsActive,
		&owner.IsStaff,
		&owner.DateJoined,
	)
	if err != nil {
		return nil, err
	}
	task.Description = stringPtr(description)
	task.DueDate = domain.TruncateToDate(task.DueDate)
	owner.MobileNumber = stringPtr(mobile)
	owner.Address = stringPtr(address)
	task.AssignedUser = &owner
	return &task, nil
}
