package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// CreateTaskParams carries the fields of a task creation request.
type CreateTaskParams struct {
	Title          string
	Description    *string
	IsCompleted    bool
	DueDate        time.Time
	AssignedUserID uuid.UUID
}

// TaskService provides task management operations.
//
// actorID identifies the authenticated caller. It is recorded in the logs of
// every mutation; it does not restrict which tasks the caller may touch.
type TaskService interface {
	// CreateTask validates and stores a new task, returning it with its
	// assigned user populated.
	CreateTask(ctx context.Context, actorID uuid.UUID, params CreateTaskParams) (*domain.Task, error)

	// GetTask retrieves a task by ID. Returns store.ErrTaskNotFound if missing.
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies patch to the task atomically and returns the result.
	UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task. Returns store.ErrTaskNotFound if missing.
	DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error

	// ListTasks returns one page of tasks matching the request's search term.
	ListTasks(ctx context.Context, req pagination.Request) (*pagination.Page[*domain.Task], error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore  store.TaskStore
	transactor store.Transactor
	pageConfig pagination.Config
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskStore store.TaskStore,
	transactor store.Transactor,
	pageConfig pagination.Config,
	logger *slog.Logger,
) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore:  taskStore,
		transactor: transactor,
		pageConfig: pageConfig,
		logger:     logger.With(slog.String("component", "task_service")),
	}
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask implements TaskService.CreateTask
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	actorID uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(params.Title, params.Description, params.DueDate, params.AssignedUserID)
	if err != nil {
		return nil, err
	}
	task.IsCompleted = params.IsCompleted

	var created *domain.Task
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)
		if err := txStore.Create(ctx, task); err != nil {
			return err
		}
		stored, err := txStore.GetByID(ctx, task.ID)
		if err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAssignedUserNotFound) {
			return nil, assignedUserError(params.AssignedUserID, err)
		}
		log.Error("failed to create task",
			slog.String("actor_id", actorID.String()),
			redact.ErrorAttr(err))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("actor_id", actorID.String()),
		slog.String("task_id", created.ID.String()),
		slog.String("assigned_user_id", created.AssignedUserID.String()))
	return created, nil
}

// GetTask implements TaskService.GetTask
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("task_id", taskID.String()),
			redact.ErrorAttr(err))
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The read, merge and write run in one transaction.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		log.Debug("empty task patch, only updated_at changes", slog.String("task_id", taskID.String()))
	}

	var updated *domain.Task
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := patch.Apply(task); err != nil {
			return err
		}
		if err := txStore.Update(ctx, task); err != nil {
			return err
		}

		updated, err = txStore.GetByID(ctx, taskID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, domain.ErrValidation):
			return nil, err
		case errors.Is(err, store.ErrAssignedUserNotFound):
			return nil, assignedUserError(patch.AssignedUserID.Value, err)
		}
		log.Error("failed to update task",
			slog.String("actor_id", actorID.String()),
			slog.String("task_id", taskID.String()),
			redact.ErrorAttr(err))
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated",
		slog.String("actor_id", actorID.String()),
		slog.String("task_id", taskID.String()))
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		log.Error("failed to delete task",
			slog.String("actor_id", actorID.String()),
			slog.String("task_id", taskID.String()),
			redact.ErrorAttr(err))
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted",
		slog.String("actor_id", actorID.String()),
		slog.String("task_id", taskID.String()))
	return nil
}

// ListTasks implements TaskService.ListTasks
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	req pagination.Request,
) (*pagination.Page[*domain.Task], error) {
	req, err := normalizePage(s.pageConfig, req)
	if err != nil {
		return nil, err
	}

	page, err := pagination.Paginate[*domain.Task](ctx, req, s.taskStore.Count, s.taskStore.List)
	if err != nil {
		if errors.Is(err, pagination.ErrPageNotFound) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			redact.ErrorAttr(err))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return page, nil
}

func assignedUserError(id uuid.UUID, err error) error {
	return domain.NewValidationError("assigned_user",
		fmt.Sprintf("Invalid pk %q - object does not exist.", id.String()), err)
}
