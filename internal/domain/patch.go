package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field is an optional value in a partial update. A zero Field means
// "leave unchanged"; Set distinguishes an explicit zero value from absence.
type Field[T any] struct {
	Set   bool
	Value T
}

// Some returns a Field that is set to value.
func Some[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

// TaskPatch describes a partial update of a Task.
// Only fields that are Set are applied.
type TaskPatch struct {
	Title          Field[string]
	Description    Field[*string] // A set nil or blank value clears the description
	IsCompleted    Field[bool]
	DueDate        Field[time.Time]
	AssignedUserID Field[uuid.UUID]
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set &&
		!p.Description.Set &&
		!p.IsCompleted.Set &&
		!p.DueDate.Set &&
		!p.AssignedUserID.Set
}

// Apply merges the patch into task field by field and validates the result.
// On validation failure task is left partially updated; callers must discard it.
func (p TaskPatch) Apply(task *Task) error {
	if p.Title.Set {
		task.Title = strings.TrimSpace(p.Title.Value)
	}
	if p.Description.Set {
		task.Description = normalizeOptional(p.Description.Value)
	}
	if p.IsCompleted.Set {
		task.IsCompleted = p.IsCompleted.Value
	}
	if p.DueDate.Set {
		task.DueDate = TruncateToDate(p.DueDate.Value)
	}
	if p.AssignedUserID.Set && p.AssignedUserID.Value != task.AssignedUserID {
		task.AssignedUserID = p.AssignedUserID.Value
		// The joined owner no longer matches
		task.AssignedUser = nil
	}

	return task.Validate()
}
