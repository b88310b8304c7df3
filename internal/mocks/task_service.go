package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// MockTaskService implements service.TaskService for testing.
// Calls records the names of the methods invoked, in order.
type MockTaskService struct {
	CreateTaskFn func(ctx context.Context, actorID uuid.UUID, params service.CreateTaskParams) (*domain.Task, error)
	GetTaskFn    func(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, actorID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, actorID, taskID uuid.UUID) error
	ListTasksFn  func(ctx context.Context, req pagination.Request) (*pagination.Page[*domain.Task], error)

	Calls []string
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	actorID uuid.UUID,
	params service.CreateTaskParams,
) (*domain.Task, error) {
	m.Calls = append(m.Calls, "CreateTask")
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, actorID, params)
	}
	return &domain.Task{
		ID:             uuid.New(),
		Title:          params.Title,
		Description:    params.Description,
		IsCompleted:    params.IsCompleted,
		DueDate:        params.DueDate,
		AssignedUserID: params.AssignedUserID,
	}, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	m.Calls = append(m.Calls, "GetTask")
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, taskID)
	}
	return &domain.Task{ID: taskID}, nil
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	m.Calls = append(m.Calls, "UpdateTask")
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, actorID, taskID, patch)
	}
	return &domain.Task{ID: taskID}, nil
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	m.Calls = append(m.Calls, "DeleteTask")
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, actorID, taskID)
	}
	return nil
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	req pagination.Request,
) (*pagination.Page[*domain.Task], error) {
	m.Calls = append(m.Calls, "ListTasks")
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, req)
	}
	return &pagination.Page[*domain.Task]{Items: []*domain.Task{}, TotalPages: 1, CurrentPage: 1}, nil
}
