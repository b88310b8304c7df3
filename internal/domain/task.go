package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the maximum number of characters in a task title.
const MaxTitleLength = 255

// DateLayout is the wire and storage format of a task due date.
const DateLayout = "2006-01-02"

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerEmpty is returned when a task has no assigned user.
	ErrTaskOwnerEmpty = errors.New("task assigned user cannot be empty")
)

// Task represents a unit of work owned by exactly one user.
type Task struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	IsCompleted    bool      `json:"is_completed"`
	DueDate        time.Time `json:"due_date"`
	AssignedUserID uuid.UUID `json:"assigned_user_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// AssignedUser is populated by reads that join the owner row.
	// It is ignored on writes, where only AssignedUserID is used.
	AssignedUser *User `json:"assigned_user,omitempty"`
}

// NewTask creates an open Task with a fresh ID.
// The due date is truncated to its calendar day.
func NewTask(title string, description *string, dueDate time.Time, assignedUserID uuid.UUID) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(title),
		Description:    normalizeOptional(description),
		DueDate:        TruncateToDate(dueDate),
		AssignedUserID: assignedUserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrTaskIDEmpty)
	}

	if t.Title == "" {
		return NewValidationError("title", "This field is required.", nil)
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", "Ensure this field has no more than 255 characters.", nil)
	}

	if t.DueDate.IsZero() {
		return NewValidationError("due_date", "This field is required.", nil)
	}

	if t.AssignedUserID == uuid.Nil {
		return NewValidationError("assigned_user", "This field is required.", ErrTaskOwnerEmpty)
	}

	return nil
}

// TruncateToDate drops the time of day, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
