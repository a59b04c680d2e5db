package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users         repository.UserRepository
	tokenMgr      *auth.TokenManager
	bcryptCost    int
	adminEmail    string
	adminPassword string
	logger        *zap.Logger
	now           func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
	Clock    func() time.Time
}

// RegisterInput is an account registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// LoginResult is either the configured administrator (User nil) or a stored user.
type LoginResult struct {
	User      *domain.User
	Email     string
	Role      domain.UserRole
	Token     string
	ExpiresAt time.Time
}

// IsAdminLogin reports whether the configured administrator logged in.
func (r *LoginResult) IsAdminLogin() bool {
	return r.User == nil && r.Role == domain.UserRoleAdmin
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &AuthService{
		users:         deps.UserRepo,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:    cfg.Auth.BcryptCost,
		adminEmail:    cfg.Auth.AdminEmail,
		adminPassword: cfg.Auth.AdminPassword,
		logger:        logger,
		now:           clock,
	}
}

// RegisterUser creates a new account. Duplicate emails are rejected both by
// the lookup and by the store's unique index.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("Email is required", nil)
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("Password is required", nil)
	}
	role, err := domain.ParseUserRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, duplicateEmailError()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateEmailError()
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login checks the configured administrator first, then stored users.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidCredentials()
	}

	if s.isAdmin(email, password) {
		token, exp, err := s.tokenMgr.GenerateToken(0, s.adminEmail, domain.UserRoleAdmin)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Email: s.adminEmail, Role: domain.UserRoleAdmin, Token: token, ExpiresAt: exp}, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Email: user.Email, Role: user.Role, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) isAdmin(email, password string) bool {
	if s.adminEmail == "" || s.adminPassword == "" {
		return false
	}
	emailOK := auth.ConstantTimeEqual(strings.ToLower(email), strings.ToLower(s.adminEmail))
	passwordOK := auth.ConstantTimeEqual(password, s.adminPassword)
	return emailOK && passwordOK
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func duplicateEmailError() error {
	return apperrors.NewConflict("Email already exists!", nil)
}

func invalidCredentials() error {
	return apperrors.NewUnauthorized("Invalid credentials")
}
