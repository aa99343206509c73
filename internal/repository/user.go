package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

const usersTable = "users"

// UserRepository is the gorm-backed user store.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return storeError(r.db.WithContext(ctx).Create(user).Error, "insert", usersTable)
}

// Get returns (nil, nil) when the user does not exist.
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeError(err, "select", usersTable)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeError(err, "select", usersTable)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, storeError(err, "select", usersTable)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, storeError(err, "count", usersTable)
	}
	return total, nil
}
