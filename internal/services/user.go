package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

const minPasswordLength = 6

// RegisterInput is the payload for creating a user.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

// UserService registers and looks up customers.
type UserService struct {
	users UserStore
	log   *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, log: logger.Named("user")}
}

// Register creates a user with a bcrypt-hashed password. A second account for
// the same email is rejected with InvalidState.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if strings.TrimSpace(input.Name) == "" || email == "" {
		return nil, apperr.InvalidArgument("name and email are required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperr.InvalidArgument("password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.InvalidState(apperr.ErrMsgEmailTaken)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if apperr.Is(err, apperr.KindInvalidState) {
			return nil, apperr.InvalidState(apperr.ErrMsgEmailTaken)
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Stringer("user_id", user.ID))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(apperr.ErrMsgUserNotFound)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(apperr.ErrMsgUserNotFound)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
