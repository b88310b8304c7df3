package store

import (
	"errors"
	"fmt"
)

// Error classes. Store implementations return one of the specific errors
// below, each of which wraps exactly one class.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")
)

var (
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrEmailExists and ErrMobileNumberExists map the users_email_key and
	// users_mobile_number_key unique constraints.
	ErrEmailExists        = fmt.Errorf("%w: email", ErrDuplicate)
	ErrMobileNumberExists = fmt.Errorf("%w: mobile number", ErrDuplicate)

	// ErrAssignedUserNotFound is a foreign key failure on tasks.assigned_user_id.
	// It is not a not-found error: the task itself may exist.
	ErrAssignedUserNotFound = fmt.Errorf("%w: assigned user does not exist", ErrInvalidEntity)
)

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
