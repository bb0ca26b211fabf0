package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a cart. Subtotal is derived, never stored.
type CartItem struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	CartID    uint64          `gorm:"column:cart_id;not null;uniqueIndex:cart_items_cart_product_key"`
	ProductID uint64          `gorm:"column:product_id;not null;uniqueIndex:cart_items_cart_product_key"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Subtotal returns quantity × unit price.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
