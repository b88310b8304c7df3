package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// Request parameters are bound from the query string and the body by
// shared.Bind, matching "form" tags.

// RegisterRequest defines the parameters of the registration endpoint.
type RegisterRequest struct {
	Email        string  `form:"email"         validate:"required,email,max=254"`
	Password     string  `form:"password"      validate:"required,min=8,max=72"`
	FirstName    string  `form:"first_name"    validate:"required,max=30"`
	LastName     string  `form:"last_name"     validate:"required,max=30"`
	MobileNumber *string `form:"mobile_number" validate:"omitempty,max=15"`
	Address      *string `form:"address"`
}

// LoginRequest defines the parameters of the login endpoint.
// Missing values are reported as invalid credentials, not field errors.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// RefreshTokenRequest defines the parameters of the token refresh endpoint.
type RefreshTokenRequest struct {
	Refresh string `form:"refresh" validate:"required"`
}

// PageQuery holds the paging parameters of list endpoints.
// Numbers stay strings until pageRequest converts them.
type PageQuery struct {
	PageSize   string `form:"page_size"`
	PageNumber string `form:"page_number"`
	Search     string `form:"search"`
}

// TaskIDRequest carries the task id of lookup and delete requests.
type TaskIDRequest struct {
	ID string `form:"id"`
}

// CreateTaskRequest defines the parameters of the task creation endpoint.
type CreateTaskRequest struct {
	Title        string  `form:"title"         validate:"required,max=255"`
	Description  *string `form:"description"`
	IsCompleted  string  `form:"is_completed"  validate:"omitempty,boolean"`
	DueDate      string  `form:"due_date"      validate:"required,datetime=2006-01-02"`
	AssignedUser string  `form:"assigned_user" validate:"required,uuid"`
}

// UpdateTaskRequest defines the parameters of the task update endpoint.
// A nil field is left unchanged.
type UpdateTaskRequest struct {
	ID           string  `form:"id"`
	Title        *string `form:"title"         validate:"omitempty,max=255"`
	Description  *string `form:"description"`
	IsCompleted  *string `form:"is_completed"  validate:"omitempty,boolean"`
	DueDate      *string `form:"due_date"`
	AssignedUser *string `form:"assigned_user"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	MobileNumber *string   `json:"mobile_number"`
	Address      *string   `json:"address"`
	DateJoined   time.Time `json:"date_joined"`
}

// TaskResponse is the public representation of a task with its owner summary.
type TaskResponse struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  *string       `json:"description"`
	IsCompleted  bool          `json:"is_completed"`
	DueDate      string        `json:"due_date"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	AssignedUser *UserResponse `json:"assigned_user"`
}

// TokenResponse defines the successful response of login and refresh.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`

	// ExpiresAt is the RFC 3339 expiry of the access token
	ExpiresAt string `json:"expires_at,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		MobileNumber: user.MobileNumber,
		Address:      user.Address,
		DateJoined:   user.DateJoined,
	}
}

func taskToResponse(task *domain.Task) TaskResponse {
	owner := &UserResponse{ID: task.AssignedUserID}
	if task.AssignedUser != nil {
		resp := userToResponse(task.AssignedUser)
		owner = &resp
	}

	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		IsCompleted:  task.IsCompleted,
		DueDate:      task.DueDate.Format(domain.DateLayout),
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		AssignedUser: owner,
	}
}

func tokenPairToResponse(pair *auth.TokenPair) TokenResponse {
	resp := TokenResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	}
	if !pair.ExpiresAt.IsZero() {
		resp.ExpiresAt = pair.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}
