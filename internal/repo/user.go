package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/kamishop/internal/models"
)

func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	total, items, err := list[models.User](ctx, r.DB.Model(&models.User{}), "email ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list users: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) SearchUsers(ctx context.Context, email string, offset, limit int) (int64, []models.User, error) {
	q := r.DB.Model(&models.User{}).Where("email LIKE ?", likePattern(email))
	total, items, err := list[models.User](ctx, q, "email ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search users: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.User](ctx, r.DB, id)
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
