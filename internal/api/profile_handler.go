package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// ProfileHandler serves the user directory.
type ProfileHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService service.UserService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "profile_handler")),
	}
}

// List handles GET /profile: one page of users, optionally filtered by a
// search over email, first name and last name.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
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

	page, err := h.userService.ListUsers(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve users.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "User retrieved successfully",
		pagination.Map(page, userToResponse))
}
