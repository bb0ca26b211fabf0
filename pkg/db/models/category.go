package models

import "time"

// Category groups products in the catalog.
type Category struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;type:varchar(120);not null"`
	Slug         string    `gorm:"column:slug;type:varchar(140);not null;uniqueIndex:categories_slug_key"`
	Description  *string   `gorm:"column:description;type:text"`
	ImageURL     *string   `gorm:"column:image_url;type:text"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
