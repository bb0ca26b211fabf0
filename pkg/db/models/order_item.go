package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem snapshots the product name and price at placement time.
type OrderItem struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint64          `gorm:"column:order_id;not null;index:order_items_order_id_idx"`
	ProductID   uint64          `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;type:varchar(160);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
