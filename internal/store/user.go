package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The caller MUST have hashed the password into HashedPassword.
	// Returns ErrEmailExists or ErrMobileNumberExists on duplicates.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Count returns the number of users whose email, first name or last name
	// contains search, case-insensitively. An empty search counts every user.
	Count(ctx context.Context, search string) (int, error)

	// List returns at most limit users matching search, skipping offset,
	// ordered by date joined and then ID.
	List(ctx context.Context, search string, limit, offset int) ([]*domain.User, error)

	// Delete removes a user and, through the foreign key, all of their tasks.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
