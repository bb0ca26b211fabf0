package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The storefront never writes products.
type Product struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;type:varchar(160);not null"`
	Slug        string          `gorm:"column:slug;type:varchar(180);not null;uniqueIndex:products_slug_key"`
	Description *string         `gorm:"column:description;type:text"`
	Ingredients *string         `gorm:"column:ingredients;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL    *string         `gorm:"column:image_url;type:text"`
	CategoryID  *uint64         `gorm:"column:category_id;index:products_category_id_idx"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	Active      bool            `gorm:"column:active;not null"`
	Featured    bool            `gorm:"column:featured;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
