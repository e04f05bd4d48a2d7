package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/task_manager/internal/models"
)

func (r *GormRepo) InsertRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindRefreshTokenByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// revoke is a conditional update: only a still-live record is touched, and
// the affected-row count tells the caller whether it won. Two concurrent
// revokes of the same jti therefore resolve to exactly one winner.
func revoke(db *gorm.DB, jti string) (bool, error) {
	res := db.Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", time.Now().UTC())
	return res.RowsAffected > 0, res.Error
}

// RevokeRefreshToken soft-deletes the record. Revoking an already-revoked
// record is a no-op, not an error.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) (bool, error) {
	return revoke(r.DB.WithContext(ctx), jti)
}

// RotateRefreshToken revokes the old record and persists its replacement in
// one transaction. ErrTokenRevoked means another rotation already consumed
// the old token.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := revoke(tx, oldJTI)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTokenRevoked
		}
		return tx.Create(next).Error
	})
}
