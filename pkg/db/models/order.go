package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/migapan/storefront-backend/pkg/enums"
)

// Order is created together with its items inside one transaction.
type Order struct {
	ID              uint64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          uint64               `gorm:"column:user_id;not null;index:orders_user_created_idx,priority:1"`
	OrderNumber     string               `gorm:"column:order_number;type:varchar(40);not null;uniqueIndex:orders_order_number_key"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;type:varchar(20);not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;type:varchar(20);not null"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal      `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	DeliveryAddress *string              `gorm:"column:delivery_address;type:text"`
	ContactPhone    *string              `gorm:"column:contact_phone;type:varchar(40)"`
	Notes           *string              `gorm:"column:notes;type:text"`
	Status          enums.OrderStatus    `gorm:"column:status;type:varchar(20);not null;default:pendiente"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime;index:orders_user_created_idx,priority:2"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
