package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrAssignedUserNotFound if the assigned user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its assigned user populated.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves every mutable column of task and refreshes task.UpdatedAt.
	// The stored update timestamp always moves forward, even when two
	// updates land within the clock's resolution.
	// Returns ErrTaskNotFound or ErrAssignedUserNotFound.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of tasks whose title or description contains
	// search, case-insensitively.
	Count(ctx context.Context, search string) (int, error)

	// List returns at most limit tasks matching search, skipping offset,
	// ordered by creation time and then ID, with assigned users populated.
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
