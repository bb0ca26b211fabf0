// Package sessions persists the rows that make access tokens revocable.
package sessions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindActiveByTokenHash returns the unexpired session for the hash, provided
// its user is still active. A miss returns (nil, nil).
func (r *Repository) FindActiveByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.Session, error) {
	var row models.Session
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Where("expires_at > ?", now.UTC()).
		Where("user_id IN (?)", r.db.Model(&models.User{}).Select("id").Where("active = ?", true)).
		First(&row).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	res := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

// DeleteForUser revokes every session the user holds.
func (r *Repository) DeleteForUser(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

// DeleteExpired purges rows whose expiry is at or before now.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
