package favorites

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/migapan/storefront-backend/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the (user, product) pair and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, productID uint64) error {
	row := models.Favorite{UserID: userID, ProductID: productID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *Repository) Remove(ctx context.Context, userID, productID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}

// FavoriteProduct pairs a product with the time it was bookmarked.
type FavoriteProduct struct {
	Product     models.Product
	FavoritedAt time.Time
}

// ListActive returns the user's favorite active products, newest favorite first.
func (r *Repository) ListActive(ctx context.Context, userID uint64) ([]FavoriteProduct, error) {
	var favs []models.Favorite
	err := r.db.WithContext(ctx).
		Table("favorites").
		Select("favorites.*").
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ? AND products.active = ?", userID, true).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Find(&favs).Error
	if err != nil || len(favs) == 0 {
		return nil, err
	}

	ids := make([]uint64, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ProductID)
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]FavoriteProduct, 0, len(favs))
	for _, f := range favs {
		if p, ok := byID[f.ProductID]; ok {
			out = append(out, FavoriteProduct{Product: p, FavoritedAt: f.CreatedAt})
		}
	}
	return out, nil
}
