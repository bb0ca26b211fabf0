package models

import "time"

// Favorite links a user to a bookmarked product.
type Favorite struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:favorites_user_product_key"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:favorites_user_product_key;index:favorites_product_id_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
