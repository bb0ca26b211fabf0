package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/migapan/storefront-backend/pkg/db/models"
	"github.com/migapan/storefront-backend/pkg/enums"
)

// LineRequest is one {product_id, quantity} pair in a placement request.
type LineRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=999"`
	// Price is accepted for compatibility and ignored; catalog prices are authoritative.
	Price *decimal.Decimal `json:"price,omitempty"`
}

// PlaceOrderRequest is the body of POST /api/pedidos. When Items is empty the
// caller's server-side cart is used.
type PlaceOrderRequest struct {
	Items           []LineRequest `json:"items,omitempty" validate:"omitempty,dive"`
	DeliveryMethod  string        `json:"delivery_method" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
	DeliveryAddress *string       `json:"delivery_address,omitempty" validate:"omitempty,max=500"`
	ContactPhone    *string       `json:"contact_phone,omitempty" validate:"omitempty,max=40"`
	Notes           *string       `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type OrderItemDTO struct {
	ID          uint64          `json:"id"`
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderDTO struct {
	ID              uint64               `json:"id"`
	OrderNumber     string               `json:"order_number"`
	Status          enums.OrderStatus    `json:"status"`
	DeliveryMethod  enums.DeliveryMethod `json:"delivery_method"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	ShippingCost    decimal.Decimal      `json:"shipping_cost"`
	Total           decimal.Decimal      `json:"total"`
	DeliveryAddress *string              `json:"delivery_address,omitempty"`
	ContactPhone    *string              `json:"contact_phone,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	ItemCount       int                  `json:"item_count"`
	Items           []OrderItemDTO       `json:"items"`
	CreatedAt       time.Time            `json:"created_at"`
}

// ListResult is one page of the caller's orders.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func FromModel(o *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		DeliveryMethod:  o.DeliveryMethod,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Total:           o.Total,
		DeliveryAddress: o.DeliveryAddress,
		ContactPhone:    o.ContactPhone,
		Notes:           o.Notes,
		Items:           make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
		dto.ItemCount += item.Quantity
	}
	return dto
}
