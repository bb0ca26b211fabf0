package products

import (
	"github.com/shopspring/decimal"

	"github.com/migapan/storefront-backend/pkg/db/models"
)

// CategorySummary is the embedded category shown with a product.
type CategorySummary struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductDTO is the storefront view of a product.
type ProductDTO struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description,omitempty"`
	Ingredients *string          `json:"ingredients,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	ImageURL    *string          `json:"image_url,omitempty"`
	CategoryID  *uint64          `json:"category_id,omitempty"`
	Category    *CategorySummary `json:"category,omitempty"`
	Active      bool             `json:"active"`
	Featured    bool             `json:"featured"`
}

func FromModel(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Ingredients: p.Ingredients,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		Active:      p.Active,
		Featured:    p.Featured,
	}
	if p.Category != nil {
		dto.Category = &CategorySummary{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return dto
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
