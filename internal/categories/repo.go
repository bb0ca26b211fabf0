package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active categories in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindActiveByID(ctx context.Context, id uint64) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

type productCount struct {
	CategoryID uint64
	Total      int64
}

// CountActiveProducts returns the number of active products per category id.
func (r *Repository) CountActiveProducts(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []productCount
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category_id, COUNT(*) AS total").
		Where("active = ? AND category_id IN ?", true, ids).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CategoryID] = row.Total
	}
	return out, nil
}
