package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/redact"
)

// Field messages produced while converting request parameters.
const (
	msgInvalidDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgInvalidUUID    = "Must be a valid UUID."
	msgInvalidBoolean = "Must be a valid boolean."
	msgInvalidInteger = "A valid integer is required."
	msgNotNull        = "This field may not be null."
)

// requireUserID extracts the authenticated user's ID placed in the context
// by the auth middleware. It writes a 401 response when the ID is missing.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, msgNotAuthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

// parseTaskID parses the "id" parameter of task requests. It writes a 400
// response when the value is absent or not a UUID.
func parseTaskID(w http.ResponseWriter, r *http.Request, raw string, log *slog.Logger) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		log.Debug("task id missing")
		shared.RespondFail(w, r, http.StatusBadRequest, msgTaskIDRequired,
			shared.FieldErrors{"id": {"This field is required."}})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		log.Debug("invalid task id", slog.String("id", raw))
		shared.RespondFail(w, r, http.StatusBadRequest, msgValidationErrors,
			shared.FieldErrors{"id": {msgInvalidUUID}})
		return uuid.Nil, false
	}
	return id, true
}

// pageRequest converts paging parameters. A page number below 1 can never
// exist and is reported as pagination.ErrPageNotFound.
func pageRequest(q PageQuery) (pagination.Request, error) {
	req := pagination.Request{Search: q.Search}
	fieldErrs := shared.FieldErrors{}

	if raw := strings.TrimSpace(q.PageSize); raw != "" {
		size, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrs.Add("page_size", msgInvalidInteger)
		case size < 1:
			fieldErrs.Add("page_size", "Ensure this value is greater than or equal to 1.")
		default:
			req.PageSize = size
		}
	}

	if raw := strings.TrimSpace(q.PageNumber); raw != "" {
		number, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrs.Add("page_number", msgInvalidInteger)
		case number < 1:
			if len(fieldErrs) == 0 {
				return req, pagination.ErrPageNotFound
			}
		default:
			req.PageNumber = number
		}
	}

	if len(fieldErrs) > 0 {
		return req, fieldErrs
	}
	return req, nil
}

// parseDate parses a YYYY-MM-DD parameter.
func parseDate(field, raw string, fieldErrs shared.FieldErrors) (time.Time, bool) {
	date, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		fieldErrs.Add(field, msgInvalidDate)
		return time.Time{}, false
	}
	return date, true
}

// parseUserRef parses a user id parameter; a blank value is reported as null.
func parseUserRef(field, raw string, fieldErrs shared.FieldErrors) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fieldErrs.Add(field, msgNotNull)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fieldErrs.Add(field, msgInvalidUUID)
		return uuid.Nil, false
	}
	return id, true
}

// parseBool parses a boolean parameter, accepting the strconv.ParseBool forms.
func parseBool(field, raw string, fieldErrs shared.FieldErrors) (bool, bool) {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		fieldErrs.Add(field, msgInvalidBoolean)
		return false, false
	}
	return value, true
}

// bindRequest binds dst and writes the error response when binding fails.
func bindRequest(w http.ResponseWriter, r *http.Request, dst any, log *slog.Logger) bool {
	_, ok := bindPresent(w, r, dst, log)
	return ok
}

// bindPresent is bindRequest that also reports which parameters the request
// supplied.
func bindPresent(w http.ResponseWriter, r *http.Request, dst any, log *slog.Logger) (shared.Present, bool) {
	present, err := shared.BindPresent(r, dst)
	if err == nil {
		return present, true
	}

	var fieldErrs shared.FieldErrors
	if !errors.As(err, &fieldErrs) {
		log.Debug("failed to bind request", redact.ErrorAttr(err))
	}
	HandleAPIError(w, r, err, "")
	return nil, false
}
