package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService service.UserService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !bindRequest(w, r, &req, log) {
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterParams{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusCreated, "User registered successfully", userToResponse(user))
}

// Login handles POST /login.
// Every credential failure is answered with the same 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !bindRequest(w, r, &req, log) {
		return
	}

	pair, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Login successful.", tokenPairToResponse(pair))
}

// Refresh handles POST /token/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !bindRequest(w, r, &req, log) {
		return
	}

	pair, err := h.userService.RefreshTokens(r.Context(), req.Refresh)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token.")
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Token refreshed successfully.", tokenPairToResponse(pair))
}
