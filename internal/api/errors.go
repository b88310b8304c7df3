package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Messages shared by several handlers.
const (
	msgValidationErrors   = "Validation errors"
	msgInvalidRequest     = "Invalid request format."
	msgInvalidCredentials = "Invalid credentials."
	msgNotAuthenticated   = "Authentication credentials were not provided."
	msgTaskIDRequired     = "Task ID is required."
	msgInternalError      = "An unexpected error occurred."
)

// authErrors are the token failures reported as 401.
var authErrors = []error{
	service.ErrInvalidCredentials,
	auth.ErrInvalidToken,
	auth.ErrExpiredToken,
	auth.ErrTokenNotYetValid,
	auth.ErrMissingToken,
	auth.ErrWrongTokenType,
	auth.ErrInvalidRefreshToken,
	auth.ErrExpiredRefreshToken,
}

// MapErrorToStatusCode maps known error types to appropriate HTTP status codes.
// Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var fieldErrs shared.FieldErrors
	switch {
	case errors.Is(err, shared.ErrMalformedRequest),
		errors.As(err, &fieldErrs),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case store.IsNotFoundError(err),
		errors.Is(err, pagination.ErrPageNotFound):
		return http.StatusNotFound
	}

	for _, target := range authErrors {
		if errors.Is(err, target) {
			return http.StatusUnauthorized
		}
	}

	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a message that can be shown to clients.
// It never includes the text of err itself.
func GetSafeErrorMessage(err error) string {
	var fieldErrs shared.FieldErrors
	switch {
	case err == nil:
		return ""
	case errors.Is(err, shared.ErrMalformedRequest):
		return msgInvalidRequest
	case errors.As(err, &fieldErrs), errors.Is(err, domain.ErrValidation):
		return msgValidationErrors
	case errors.Is(err, service.ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired."
	case errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Refresh token has expired."
	case errors.Is(err, auth.ErrInvalidRefreshToken), errors.Is(err, auth.ErrWrongTokenType):
		return "Token is invalid or expired."
	case errors.Is(err, auth.ErrMissingToken):
		return msgNotAuthenticated
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		return "Given token not valid for any token type."
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found."
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found."
	case errors.Is(err, pagination.ErrPageNotFound):
		return "Page not found."
	case store.IsNotFoundError(err):
		return "Not found."
	default:
		return msgInternalError
	}
}

// FieldErrorsFor extracts per-field messages from validation errors.
// It returns nil for errors that carry no field information.
func FieldErrorsFor(err error) map[string][]string {
	var fieldErrs shared.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return map[string][]string{validationErr.Field: {validationErr.Message}}
	}

	return nil
}

// HandleAPIError writes the envelope for err. Validation failures become a
// 400 "fail" envelope listing field errors; everything else is logged with
// redaction and answered with a safe message. A non-empty serverMessage
// replaces the generic text of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, serverMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	if status == http.StatusBadRequest {
		if fieldErrs := FieldErrorsFor(err); fieldErrs != nil {
			shared.RespondFail(w, r, status, message, fieldErrs)
			return
		}
	}

	if status == http.StatusInternalServerError && serverMessage != "" {
		message = serverMessage
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
