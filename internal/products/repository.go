package products

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/pkg/db/models"
)

// Repository reads the catalog. The storefront has no product writes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// List applies the filters and orders featured first, then by name.
func (r *Repository) List(ctx context.Context, f ListFilters) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	switch f.Active {
	case ActiveOnly:
		q = q.Where("products.active = ?", true)
	case InactiveOnly:
		q = q.Where("products.active = ?", false)
	}
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.CategorySlug != "" {
		q = q.Where("products.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if f.FeaturedOnly {
		q = q.Where("products.featured = ?", true)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where(
			"LOWER(products.name) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(products.description, '')) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(products.ingredients, '')) LIKE ? ESCAPE '\\'",
			like, like, like,
		)
	}

	var rows []models.Product
	err := q.Order("products.featured DESC").
		Order("products.name ASC").
		Order("products.id ASC").
		Find(&rows).Error
	return rows, err
}

// FindActiveByID loads an active product with its category.
func (r *Repository) FindActiveByID(ctx context.Context, id uint64) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND active = ?", id, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindActiveBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND active = ?", strings.ToLower(strings.TrimSpace(slug)), true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByIDs returns the active products among ids keyed by id.
// Missing or inactive ids are simply absent from the map.
func (r *Repository) FindActiveByIDs(ctx context.Context, ids []uint64) (map[uint64]models.Product, error) {
	out := make(map[uint64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
