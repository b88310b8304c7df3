package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("email", "Enter a valid email address.", ErrInvalidEmail)
	wrapped := fmt.Errorf("register: %w", err)

	assert.Equal(t, "email: Enter a valid email address.", err.Error())
	assert.ErrorIs(t, wrapped, ErrInvalidEmail)
	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.False(t, errors.Is(wrapped, ErrInvalidID))

	plain := NewValidationError("title", "This field is required.", nil)
	assert.Equal(t, ErrValidation, errors.Unwrap(plain))
}
