package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		wantIs  []error
		wantNot []error
	}{
		{
			name:   "no rows",
			err:    sql.ErrNoRows,
			wantIs: []error{store.ErrNotFound, sql.ErrNoRows},
		},
		{
			name:    "email unique constraint",
			err:     &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailKey},
			wantIs:  []error{store.ErrEmailExists, store.ErrDuplicate},
			wantNot: []error{store.ErrMobileNumberExists},
		},
		{
			name:    "mobile unique constraint",
			err:     &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersMobileNumberKey},
			wantIs:  []error{store.ErrMobileNumberExists, store.ErrDuplicate},
			wantNot: []error{store.ErrEmailExists},
		},
		{
			name:   "other unique constraint",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_pkey"},
			wantIs: []error{store.ErrDuplicate},
		},
		{
			name:   "assigned user foreign key",
			err:    fmt.Errorf("exec: %w", &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: tasksAssignedUserIDFkey}),
			wantIs: []error{store.ErrAssignedUserNotFound, store.ErrInvalidEntity},
		},
		{
			name:   "check violation",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_title_not_blank"},
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:   "not null violation",
			err:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:    "unmapped postgres error",
			err:     &pgconn.PgError{Code: "42P01"},
			wantNot: []error{store.ErrNotFound, store.ErrDuplicate, store.ErrInvalidEntity},
		},
		{
			name:    "non postgres error",
			err:     plain,
			wantIs:  []error{plain},
			wantNot: []error{store.ErrNotFound, store.ErrDuplicate, store.ErrInvalidEntity},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tc.err)

			require.Error(t, mapped)
			for _, target := range tc.wantIs {
				assert.ErrorIs(t, mapped, target)
			}
			for _, target := range tc.wantNot {
				assert.NotErrorIs(t, mapped, target)
			}
		})
	}

	assert.NoError(t, MapError(nil))
}

func TestMapErrorKeepsDriverError(t *testing.T) {
	t.Parallel()

	emailDup := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailKey}
	ownerFK := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_other_fkey"}

	mapped := MapError(emailDup)
	var pgErr *pgconn.PgError
	require.ErrorAs(t, mapped, &pgErr)
	assert.Equal(t, usersEmailKey, pgErr.ConstraintName)
	assert.True(t, IsUniqueViolation(mapped))
	assert.ErrorIs(t, mapped, store.ErrEmailExists)

	mapped = MapError(ownerFK)
	assert.True(t, IsForeignKeyViolation(mapped))
	assert.ErrorIs(t, mapped, store.ErrInvalidEntity)
	assert.NotErrorIs(t, mapped, store.ErrAssignedUserNotFound)
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	unique := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: uniqueViolationCode})
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrTaskNotFound))
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, store.ErrTaskNotFound), store.ErrTaskNotFound)
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, nil), store.ErrNotFound)

	resultErr := errors.New("driver does not support rows affected")
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{err: resultErr}, nil), resultErr)
	assert.Error(t, CheckRowsAffected(nil, nil))
}
