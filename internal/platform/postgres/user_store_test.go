package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "email", "password", "first_name", "last_name", "mobile_number", "address",
	"is_active", "is_staff", "date_joined",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testUser() *domain.User {
	mobile := "5550100"
	return &domain.User{
		ID:             uuid.New(),
		Email:          "jane@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:      "Jane",
		LastName:       "Doe",
		MobileNumber:   &mobile,
		IsActive:       true,
		DateJoined:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPostgresUserStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user := testUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID, user.Email, user.HashedPassword, user.FirstName, user.LastName,
				sqlmock.AnyArg(), sqlmock.AnyArg(), true, false, user.DateJoined).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresUserStore(db, nil).Create(context.Background(), user)
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailKey})

		err := NewPostgresUserStore(db, nil).Create(context.Background(), testUser())
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("duplicate mobile number", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersMobileNumberKey})

		err := NewPostgresUserStore(db, nil).Create(context.Background(), testUser())
		assert.ErrorIs(t, err, store.ErrMobileNumberExists)
	})

	t.Run("missing hash never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		user := testUser()
		user.HashedPassword = ""

		err := NewPostgresUserStore(db, nil).Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresUserStoreGet(t *testing.T) {
	t.Parallel()

	t.Run("by email with null profile fields", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user := testUser()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs(user.Email).
			WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
				user.ID.String(), user.Email, user.HashedPassword, user.FirstName, user.LastName,
				nil, nil, true, false, user.DateJoined,
			))

		got, err := NewPostgresUserStore(db, nil).GetByEmail(context.Background(), user.Email)

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.HashedPassword, got.HashedPassword)
		assert.Nil(t, got.MobileNumber)
		assert.Nil(t, got.Address)
		assert.True(t, got.IsActive)
	})

	t.Run("by id not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		got, err := NewPostgresUserStore(db, nil).GetByID(context.Background(), id)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).WillReturnError(dbErr)

		_, err := NewPostgresUserStore(db, nil).GetByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, dbErr)
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestPostgresUserStoreCountAndList(t *testing.T) {
	t.Parallel()

	t.Run("count without search", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM users$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := NewPostgresUserStore(db, nil).Count(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("count with search", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email ILIKE \$1 OR first_name ILIKE \$1 OR last_name ILIKE \$1`).
			WithArgs("%doe%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := NewPostgresUserStore(db, nil).Count(context.Background(), "doe")

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("list with search orders and pages", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		first, second := testUser(), testUser()

		mock.ExpectQuery(`FROM users WHERE .+ ORDER BY date_joined, id LIMIT \$2 OFFSET \$3`).
			WithArgs("%example%", 10, 20).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(first.ID.String(), first.Email, first.HashedPassword, first.FirstName, first.LastName,
					*first.MobileNumber, "1 Main St", true, false, first.DateJoined).
				AddRow(second.ID.String(), second.Email, second.HashedPassword, second.FirstName, second.LastName,
					nil, nil, false, true, second.DateJoined))

		users, err := NewPostgresUserStore(db, nil).List(context.Background(), "example", 10, 20)

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, first.ID, users[0].ID)
		require.NotNil(t, users[0].Address)
		assert.Equal(t, "1 Main St", *users[0].Address)
		assert.False(t, users[1].IsActive)
		assert.True(t, users[1].IsStaff)
	})

	t.Run("list without search", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectQuery(`FROM users ORDER BY date_joined, id LIMIT \$1 OFFSET \$2`).
			WithArgs(5, 0).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		users, err := NewPostgresUserStore(db, nil).List(context.Background(), "", 5, 0)

		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestPostgresUserStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPostgresUserStore(db, nil).Delete(context.Background(), id))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		mock.ExpectExec(`DELETE FROM users`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresUserStore(db, nil).Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStoreWithTx(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := NewPostgresUserStore(db, nil).WithTx(tx)
	require.NoError(t, txStore.Delete(context.Background(), uuid.New()))
	require.NoError(t, tx.Rollback())
}
