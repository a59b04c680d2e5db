package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// UserService administers stored accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	now        func() time.Time
}

// UserUpdate replaces an account's attributes. Empty fields keep their
// stored values and a non-empty password is re-hashed.
type UserUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository) *UserService {
	return &UserService{
		users:      users,
		bcryptCost: cfg.BcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns every account in registration order.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Update applies a UserUpdate.
func (s *UserService) Update(ctx context.Context, id int64, update UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found!")
	}

	if v := strings.TrimSpace(update.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(update.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(update.Email); v != "" {
		user.Email = v
	}
	if strings.TrimSpace(update.Role) != "" {
		if user.Role, err = domain.ParseUserRole(update.Role); err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
	}
	if update.Password != "" {
		if user.PasswordHash, err = auth.HashPassword(update.Password, s.bcryptCost); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateEmailError()
		}
		return nil, notFoundOr(err, "User not found!")
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "User not found!")
	}
	return nil
}
