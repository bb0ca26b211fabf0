package categories

import (
	"context"
	"fmt"

	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

// CategoryDTO is the storefront view of a category.
type CategoryDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
	ProductCount int64   `json:"product_count"`
}

type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uint64) (*CategoryDTO, error)
	ListProducts(ctx context.Context, id uint64) ([]products.ProductDTO, error)
}

type categoryRepository interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	FindActiveByID(ctx context.Context, id uint64) (*models.Category, error)
	CountActiveProducts(ctx context.Context, ids []uint64) (map[uint64]int64, error)
}

type productLister interface {
	List(ctx context.Context, filters products.ListFilters) ([]products.ProductDTO, error)
}

type service struct {
	repo     categoryRepository
	products productLister
}

func NewService(repo categoryRepository, productSvc productLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if productSvc == nil {
		return nil, fmt.Errorf("product service is required")
	}
	return &service{repo: repo, products: productSvc}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	ids := make([]uint64, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.ID)
	}
	counts, err := s.repo.CountActiveProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}

	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dto := toDTO(&rows[i])
		dto.ProductCount = counts[rows[i].ID]
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uint64) (*CategoryDTO, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountActiveProducts(ctx, []uint64{c.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	dto := toDTO(c)
	dto.ProductCount = counts[c.ID]
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, id uint64) ([]products.ProductDTO, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.products.List(ctx, products.ListFilters{CategoryID: &c.ID, Active: products.ActiveOnly})
}

func (s *service) load(ctx context.Context, id uint64) (*models.Category, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
	}
	c, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return c, nil
}

func toDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		DisplayOrder: c.DisplayOrder,
	}
}
