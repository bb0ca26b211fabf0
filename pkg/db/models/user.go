package models

import (
	"time"

	"github.com/migapan/storefront-backend/pkg/enums"
)

// User represents a storefront account.
type User struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `gorm:"column:name;type:varchar(120);not null"`
	Email        string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex:users_email_key"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Phone        *string        `gorm:"column:phone;type:varchar(40)"`
	Role         enums.UserRole `gorm:"column:role;type:varchar(20);not null;default:cliente"`
	Active       bool           `gorm:"column:active;not null"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
