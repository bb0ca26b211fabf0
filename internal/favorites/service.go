package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

// AddRequest is the body of POST /api/usuarios/favoritos.
type AddRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
}

// FavoriteDTO is a favorite product as returned to the client.
type FavoriteDTO struct {
	products.ProductDTO
	FavoritedAt time.Time `json:"favorited_at"`
}

type Service interface {
	List(ctx context.Context, userID uint64) ([]FavoriteDTO, error)
	Add(ctx context.Context, userID, productID uint64) error
	Remove(ctx context.Context, userID, productID uint64) error
}

type productFinder interface {
	FindActiveByID(ctx context.Context, id uint64) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productFinder
}

func NewService(repo *Repository, productRepo productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: repo, products: productRepo}, nil
}

func (s *service) List(ctx context.Context, userID uint64) ([]FavoriteDTO, error) {
	rows, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	out := make([]FavoriteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FavoriteDTO{
			ProductDTO:  products.FromModel(&rows[i].Product),
			FavoritedAt: rows[i].FavoritedAt,
		})
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, userID, productID uint64) error {
	if productID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add favorite")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uint64) error {
	if productID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorite")
	}
	return nil
}
