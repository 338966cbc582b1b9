package repository

import (
	"context"

	"gorm.io/gorm"

	"clinicbook/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindProvider(ctx context.Context, name string, role model.Role) (*model.User, error)
	FirstProviderByRole(ctx context.Context, role model.Role) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListProviders(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByUsername finds a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindProvider finds the provider user with the given display name and role.
func (r *userRepository) FindProvider(ctx context.Context, name string, role model.Role) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ? AND role = ?", name, role).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FirstProviderByRole returns the earliest-registered provider of a role,
// used as the deterministic default when a booking names no provider.
func (r *userRepository) FirstProviderByRole(ctx context.Context, role model.Role) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).
		Order("created_at asc").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists all users.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListProviders lists users whose role owns appointment slots.
func (r *userRepository) ListProviders(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("role IN ?", []model.Role{model.RoleDentist, model.RolePhysician}).
		Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
