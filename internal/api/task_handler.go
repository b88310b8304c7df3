package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !bindRequest(w, r, &req, log) {
		return
	}

	fieldErrs := shared.FieldErrors{}
	params := service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
	}
	params.DueDate, _ = parseDate("due_date", req.DueDate, fieldErrs)
	params.AssignedUserID, _ = parseUserRef("assigned_user", req.AssignedUser, fieldErrs)
	if req.IsCompleted != "" {
		params.IsCompleted, _ = parseBool("is_completed", req.IsCompleted, fieldErrs)
	}
	if len(fieldErrs) > 0 {
		HandleAPIError(w, r, fieldErrs, "")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), actorID, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusCreated, "Task created successfully", taskToResponse(task))
}

// Update handles PUT /tasks_update. Only the parameters present in the
// request are changed; an empty or null description clears it.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	present, ok := bindPresent(w, r, &req, log)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r, req.ID, log)
	if !ok {
		return
	}

	patch, fieldErrs := buildTaskPatch(req, present)
	if len(fieldErrs) > 0 {
		HandleAPIError(w, r, fieldErrs, "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), actorID, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task updated successfully", taskToResponse(task))
}

// List handles GET /tasklist_view: one page of tasks, optionally filtered by
// a search over title and description.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := requireUserID(w, r, log); !ok {
		return
	}

	var query PageQuery
	if !bindRequest(w, r, &query, log) {
		return
	}
	req, err := pageRequest(query)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.ListTasks(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task retrieved successfully",
		pagination.Map(page, taskToResponse))
}

// GetByID handles GET /tasklist_id.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := requireUserID(w, r, log); !ok {
		return
	}

	var req TaskIDRequest
	if !bindRequest(w, r, &req, log) {
		return
	}
	taskID, ok := parseTaskID(w, r, req.ID, log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task retrieved successfully.", taskToResponse(task))
}

// Delete handles DELETE /taskdetail_delete.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req TaskIDRequest
	if !bindRequest(w, r, &req, log) {
		return
	}
	taskID, ok := parseTaskID(w, r, req.ID, log)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), actorID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task deleted successfully", nil)
}

// buildTaskPatch converts the parameters present in req into a TaskPatch.
// A description sent as null is a present parameter with no value.
func buildTaskPatch(req UpdateTaskRequest, present shared.Present) (domain.TaskPatch, shared.FieldErrors) {
	var patch domain.TaskPatch
	fieldErrs := shared.FieldErrors{}

	if req.Title != nil {
		patch.Title = domain.Some(*req.Title)
	}
	if req.Description != nil || present.Has("description") {
		patch.Description = domain.Some(req.Description)
	}
	if req.IsCompleted != nil {
		if value, ok := parseBool("is_completed", *req.IsCompleted, fieldErrs); ok {
			patch.IsCompleted = domain.Some(value)
		}
	}
	if req.DueDate != nil {
		if date, ok := parseDate("due_date", *req.DueDate, fieldErrs); ok {
			patch.DueDate = domain.Some(date)
		}
	}
	if req.AssignedUser != nil {
		if id, ok := parseUserRef("assigned_user", *req.AssignedUser, fieldErrs); ok {
			patch.AssignedUserID = domain.Some(id)
		}
	}

	return patch, fieldErrs
}
