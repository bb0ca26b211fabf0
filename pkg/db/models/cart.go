package models

import "time"

// Cart belongs to exactly one of a user or an anonymous session.
type Cart struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    *uint64    `gorm:"column:user_id;uniqueIndex:carts_user_id_key"`
	SessionID *string    `gorm:"column:session_id;type:varchar(128);uniqueIndex:carts_session_id_key"`
	Items     []CartItem `gorm:"foreignKey:CartID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
