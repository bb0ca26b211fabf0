package cart

import (
	"github.com/shopspring/decimal"

	"github.com/migapan/storefront-backend/pkg/db/models"
)

// AddItemRequest is the body of POST /api/carrito.
type AddItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=999"`
}

// UpdateItemRequest sets an absolute quantity; zero removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}

type CartItemDTO struct {
	ID        uint64          `json:"id"`
	ProductID uint64          `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Active    bool            `json:"active"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartDTO struct {
	ID        uint64          `json:"id,omitempty"`
	Items     []CartItemDTO   `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Empty is what a caller without a cart row sees.
func Empty() *CartDTO {
	return &CartDTO{Items: []CartItemDTO{}, Total: decimal.Zero}
}

func FromModel(c *models.Cart, items []models.CartItem) *CartDTO {
	dto := Empty()
	if c == nil {
		return dto
	}
	dto.ID = c.ID
	for _, item := range items {
		line := CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Slug = item.Product.Slug
			line.ImageURL = item.Product.ImageURL
			line.Active = item.Product.Active
		}
		dto.Items = append(dto.Items, line)
		dto.Total = dto.Total.Add(line.Subtotal)
		dto.ItemCount += item.Quantity
	}
	return dto
}
