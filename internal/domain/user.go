package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits shared by domain validation and request validation.
const (
	MaxEmailLength        = 254
	MaxNameLength         = 30
	MaxMobileNumberLength = 15
	MinPasswordLength     = 8
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// User represents a registered account. Email is the identity key.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, only set between request and hashing
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	MobileNumber   *string   `json:"mobile_number"`
	Address        *string   `json:"address"`
	IsActive       bool      `json:"is_active"`
	IsStaff        bool      `json:"is_staff"`
	DateJoined     time.Time `json:"date_joined"`
}

// UserProfile holds the optional profile fields supplied at registration.
type UserProfile struct {
	MobileNumber *string
	Address      *string
}

// NewUser creates an active, non-staff User with a fresh ID.
//
// NOTE: the returned user only carries the plaintext password. The caller is
// responsible for hashing it into HashedPassword and clearing Password before
// the user is stored.
func NewUser(email, password, firstName, lastName string, profile UserProfile) (*User, error) {
	user := &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Password:     password,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		MobileNumber: normalizeOptional(profile.MobileNumber),
		Address:      normalizeOptional(profile.Address),
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns a *ValidationError naming the first invalid field.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if u.Email == "" {
		return NewValidationError("email", "This field is required.", nil)
	}
	if len(u.Email) > MaxEmailLength || !validateEmailFormat(u.Email) {
		return NewValidationError("email", "Enter a valid email address.", ErrInvalidEmail)
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return NewValidationError("password", "Ensure this field has at least 8 characters.", ErrInvalidPassword)
		}
		if len(u.Password) > MaxPasswordLength {
			return NewValidationError("password", "Ensure this field has no more than 72 characters.", ErrInvalidPassword)
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store only carry the hash
		return NewValidationError("password", "This field is required.", ErrInvalidPassword)
	}

	if err := validateName("first_name", u.FirstName); err != nil {
		return err
	}
	if err := validateName("last_name", u.LastName); err != nil {
		return err
	}

	if u.MobileNumber != nil && utf8.RuneCountInString(*u.MobileNumber) > MaxMobileNumberLength {
		return NewValidationError("mobile_number", "Ensure this field has no more than 15 characters.", nil)
	}

	return nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the domain part,
// leaving the local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func validateName(field, value string) error {
	if value == "" {
		return NewValidationError(field, "This field is required.", nil)
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return NewValidationError(field, "Ensure this field has no more than 30 characters.", nil)
	}
	return nil
}

// validateEmailFormat accepts a bare address (no display name) whose domain
// contains a dot that is neither leading nor trailing.
func validateEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domainPart := email[strings.LastIndex(email, "@")+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && !strings.HasSuffix(domainPart, ".")
}

// normalizeOptional trims an optional string and maps blank values to nil.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
