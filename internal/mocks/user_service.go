package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// MockUserService implements service.UserService for testing.
// Calls records the names of the methods invoked, in order.
type MockUserService struct {
	RegisterFn      func(ctx context.Context, params service.RegisterParams) (*domain.User, error)
	AuthenticateFn  func(ctx context.Context, email, password string) (*auth.TokenPair, error)
	RefreshTokensFn func(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	GetUserFn       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ListUsersFn     func(ctx context.Context, req pagination.Request) (*pagination.Page[*domain.User], error)

	Calls []string
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, params service.RegisterParams) (*domain.User, error) {
	m.Calls = append(m.Calls, "Register")
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, params)
	}
	return &domain.User{ID: uuid.New(), Email: params.Email, IsActive: true}, nil
}

// Authenticate implements service.UserService
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	m.Calls = append(m.Calls, "Authenticate")
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return &auth.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil
}

// RefreshTokens implements service.UserService
func (m *MockUserService) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	m.Calls = append(m.Calls, "RefreshTokens")
	if m.RefreshTokensFn != nil {
		return m.RefreshTokensFn(ctx, refreshToken)
	}
	return &auth.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	m.Calls = append(m.Calls, "GetUser")
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return &domain.User{ID: userID, IsActive: true}, nil
}

// ListUsers implements service.UserService
func (m *MockUserService) ListUsers(
	ctx context.Context,
	req pagination.Request,
) (*pagination.Page[*domain.User], error) {
	m.Calls = append(m.Calls, "ListUsers")
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, req)
	}
	return &pagination.Page[*domain.User]{Items: []*domain.User{}, TotalPages: 1, CurrentPage: 1}, nil
}
