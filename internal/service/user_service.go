package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	MobileNumber *string
	Address      *string
}

// UserService provides registration, authentication and profile listing.
type UserService interface {
	// Register validates and stores a new account.
	// Duplicate emails and mobile numbers are reported as *domain.ValidationError.
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)

	// Authenticate checks credentials and issues a token pair.
	// Every credential failure returns ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error)

	// RefreshTokens exchanges a valid refresh token for a new pair, as long
	// as its user still exists and is active.
	RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns one page of users matching the request's search term.
	ListUsers(ctx context.Context, req pagination.Request) (*pagination.Page[*domain.User], error)
}

// dummyPassword is hashed once and compared against when an email is unknown,
// so a failed login costs the same whether or not the account exists.
const dummyPassword = "tasktrack-dummy-password"

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	jwtService auth.JWTService
	pageConfig pagination.Config
	logger     *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	jwtService auth.JWTService,
	pageConfig pagination.Config,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:  userStore,
		hasher:     hasher,
		jwtService: jwtService,
		pageConfig: pageConfig,
		logger:     logger.With(slog.String("component", "user_service")),
	}
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.Register
func (s *UserServiceImpl) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(params.Email, params.Password, params.FirstName, params.LastName,
		domain.UserProfile{MobileNumber: params.MobileNumber, Address: params.Address})
	if err != nil {
		log.Debug("registration rejected by validation", redact.ErrorAttr(err))
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domain.NewValidationError("password",
				"Ensure this field has no more than 72 characters.", domain.ErrInvalidPassword)
		}
		log.Error("failed to hash password", redact.ErrorAttr(err))
		return nil, NewUserServiceError("register", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, domain.NewValidationError("email", "user with this email already exists.", err)
		case errors.Is(err, store.ErrMobileNumberExists):
			return nil, domain.NewValidationError("mobile_number",
				"user with this mobile number already exists.", err)
		}
		log.Error("failed to create user", redact.ErrorAttr(err))
		return nil, NewUserServiceError("register", "failed to create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		log.Debug("login rejected: missing credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyDigest(), password)
			log.Debug("login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", redact.ErrorAttr(err))
		return nil, NewUserServiceError("authenticate", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Info("login rejected: inactive account", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.IssueTokenPair(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue tokens",
			slog.String("user_id", user.ID.String()),
			redact.ErrorAttr(err))
		return nil, NewUserServiceError("authenticate", "failed to issue tokens", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return pair, nil
}

// RefreshTokens implements UserService.RefreshTokens
func (s *UserServiceImpl) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info("refresh rejected: user no longer exists", slog.String("user_id", claims.UserID.String()))
			return nil, auth.ErrInvalidRefreshToken
		}
		log.Error("failed to look up user for refresh", redact.ErrorAttr(err))
		return nil, err
	}
	if !user.IsActive {
		log.Info("refresh rejected: inactive account", slog.String("user_id", user.ID.String()))
		return nil, auth.ErrInvalidRefreshToken
	}

	pair, err := s.jwtService.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, NewUserServiceError("refresh", "failed to issue tokens", err)
	}
	return pair, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewUserServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(
	ctx context.Context,
	req pagination.Request,
) (*pagination.Page[*domain.User], error) {
	req, err := normalizePage(s.pageConfig, req)
	if err != nil {
		return nil, err
	}

	page, err := pagination.Paginate[*domain.User](ctx, req, s.userStore.Count, s.userStore.List)
	if err != nil {
		if errors.Is(err, pagination.ErrPageNotFound) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			redact.ErrorAttr(err))
		return nil, NewUserServiceError("list_users", "failed to list users", err)
	}
	return page, nil
}

// dummyDigest returns a digest produced by the configured hasher, computed
// on first use.
func (s *UserServiceImpl) dummyDigest() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error("failed to hash dummy password", redact.ErrorAttr(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
