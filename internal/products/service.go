package products

import (
	"context"
	"fmt"

	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

// Service exposes catalog reads to controllers and other services.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	GetByID(ctx context.Context, id uint64) (*ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
}

type productRepository interface {
	List(ctx context.Context, f ListFilters) ([]models.Product, error)
	FindActiveByID(ctx context.Context, id uint64) (*models.Product, error)
	FindActiveBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type service struct {
	repo productRepository
}

func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*ProductDTO, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	p, err := s.repo.FindActiveByID(ctx, id)
	return single(p, err)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	p, err := s.repo.FindActiveBySlug(ctx, slug)
	return single(p, err)
}

func single(p *models.Product, err error) (*ProductDTO, error) {
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	dto := FromModel(p)
	return &dto, nil
}
