package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app         *application
	sqlMock     sqlmock.Sqlmock
	userService *mocks.MockUserService
	taskService *mocks.MockTaskService
	userID      uuid.UUID
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userID := uuid.New()
	userService := &mocks.MockUserService{}
	taskService := &mocks.MockTaskService{}
	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if token != "valid-token" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: userID, TokenType: "access"}, nil
		},
	}

	app := &application{
		config:      &config.Config{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		db:          db,
		jwtService:  jwtService,
		userService: userService,
		taskService: taskService,
	}

	return &testApp{
		app:         app,
		sqlMock:     sqlMock,
		userService: userService,
		taskService: taskService,
		userID:      userID,
	}
}

func (ta *testApp) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ta.app.setupRouter().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("database reachable", func(t *testing.T) {
		t.Parallel()
		ta := newTestApp(t)
		ta.sqlMock.ExpectPing()

		rec := ta.do(http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.NoError(t, ta.sqlMock.ExpectationsWereMet())
	})

	t.Run("database unreachable", func(t *testing.T) {
		t.Parallel()
		ta := newTestApp(t)
		ta.sqlMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec := ta.do(http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NoError(t, ta.sqlMock.ExpectationsWereMet())
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/profile/"},
		{http.MethodPost, "/tasks/"},
		{http.MethodPut, "/tasks_update/"},
		{http.MethodGet, "/tasklist_view/"},
		{http.MethodGet, "/tasklist_id/"},
		{http.MethodDelete, "/taskdetail_delete/"},
	}

	for _, route := range routes {
		route := route
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			t.Parallel()
			ta := newTestApp(t)

			rec := ta.do(route.method, route.path, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = ta.do(route.method, route.path, "forged-token")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			assert.Empty(t, ta.userService.Calls)
			assert.Empty(t, ta.taskService.Calls)
		})
	}
}

func TestRoutesReachHandlers(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	testCases := []struct {
		name       string
		method     string
		target     string
		token      string
		wantStatus int
		wantUser   []string
		wantTask   []string
	}{
		{
			name:       "login without trailing slash",
			method:     http.MethodPost,
			target:     "/login",
			wantStatus: http.StatusOK,
			wantUser:   []string{"Authenticate"},
		},
		{
			name:       "login with trailing slash",
			method:     http.MethodPost,
			target:     "/login/",
			wantStatus: http.StatusOK,
			wantUser:   []string{"Authenticate"},
		},
		{
			name:       "profile list",
			method:     http.MethodGet,
			target:     "/profile/",
			token:      "valid-token",
			wantStatus: http.StatusOK,
			wantUser:   []string{"ListUsers"},
		},
		{
			name:       "task list",
			method:     http.MethodGet,
			target:     "/tasklist_view/?page_size=5",
			token:      "valid-token",
			wantStatus: http.StatusOK,
			wantTask:   []string{"ListTasks"},
		},
		{
			name:       "task by id",
			method:     http.MethodGet,
			target:     "/tasklist_id/?id=" + taskID.String(),
			token:      "valid-token",
			wantStatus: http.StatusOK,
			wantTask:   []string{"GetTask"},
		},
		{
			name:       "task delete",
			method:     http.MethodDelete,
			target:     "/taskdetail_delete/?id=" + taskID.String(),
			token:      "valid-token",
			wantStatus: http.StatusOK,
			wantTask:   []string{"DeleteTask"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ta := newTestApp(t)
			ta.taskService.GetTaskFn = func(_ context.Context, id uuid.UUID) (*domain.Task, error) {
				return &domain.Task{ID: id, AssignedUserID: ta.userID}, nil
			}

			rec := ta.do(tc.method, tc.target, tc.token)

			assert.Equal(t, tc.wantStatus, rec.Code, "body: %s", rec.Body.String())
			assert.Equal(t, tc.wantUser, nilIfEmpty(ta.userService.Calls))
			assert.Equal(t, tc.wantTask, nilIfEmpty(ta.taskService.Calls))
		})
	}
}

func TestRouterSetsTraceHeader(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	ta.sqlMock.ExpectPing()

	rec := ta.do(http.MethodGet, "/health", "")

	assert.NotEmpty(t, rec.Header().Get(middleware.TraceIDHeader))
}

func TestTaskListRejectsOutOfRangePage(t *testing.T) {
	t.Parallel()
	ta := newTestApp(t)
	ta.taskService.ListTasksFn = func(_ context.Context, _ pagination.Request) (*pagination.Page[*domain.Task], error) {
		return nil, pagination.ErrPageNotFound
	}

	rec := ta.do(http.MethodGet, "/tasklist_view/?page_number=9", "valid-token")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Page not found."), rec.Body.String())
}

func nilIfEmpty(calls []string) []string {
	if len(calls) == 0 {
		return nil
	}
	return calls
}
