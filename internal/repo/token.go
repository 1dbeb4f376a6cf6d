package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/models"
)

var ErrRefreshRevoked = errors.New("refresh token expired or revoked")

func (r *GormRepo) AddRefreshToken(ctx context.Context, tok *models.RefreshToken) error {
	if err := r.DB.WithContext(ctx).Create(tok).Error; err != nil {
		return fmt.Errorf("add refresh token: %w", err)
	}
	return nil
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	err := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken revokes oldJTI and stores next in one transaction. It
// fails with ErrRefreshRevoked when the old token is unusable.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.RefreshToken
		if err := tx.Where("jti = ?", oldJTI).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefreshRevoked
			}
			return err
		}
		if old.Revoked || old.ExpiresAt.Before(now) {
			return ErrRefreshRevoked
		}

		if err := tx.Model(&old).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}
