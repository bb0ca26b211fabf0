package models

import "time"

// Session makes an access token revocable. Only the sha256 of the token is stored.
type Session struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;index:sessions_user_id_idx"`
	TokenHash string    `gorm:"column:token_hash;type:char(64);not null;uniqueIndex:sessions_token_hash_key"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index:sessions_expires_at_idx"`
	UserAgent *string   `gorm:"column:user_agent;type:varchar(255)"`
	IPAddress *string   `gorm:"column:ip_address;type:varchar(64)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
