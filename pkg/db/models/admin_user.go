package models

import (
	"time"

	"github.com/mesaqr/mesaqr-backend/pkg/enums"
)

// AdminUser is a staff account for the admin and kitchen dashboards.
type AdminUser struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string          `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.AdminRole `gorm:"column:role;not null;default:'manager'"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminUser) TableName() string { return "admin_users" }
