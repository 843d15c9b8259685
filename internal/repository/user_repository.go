package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cleansweep/internal/model"
)

// UserRepository defines credential store operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsWithRole(ctx context.Context, role model.Role) (bool, error)
	// UpdateRole changes the role only while the user still holds from.
	UpdateRole(ctx context.Context, id string, from, to model.Role) error
	AddPoints(ctx context.Context, id string, delta int) error
	Top(ctx context.Context, limit int) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translateGormError(err))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsWithRole(ctx context.Context, role model.Role) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by role: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, from, to model.Role) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND role = ?", id, from).
		Update("role", to)
	if res.Error != nil {
		return fmt.Errorf("update role: %w", translateGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) AddPoints(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("add points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Top(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Order("total_points DESC").Order("name ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
