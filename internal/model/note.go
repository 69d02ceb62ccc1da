package model

import (
	"time"

	"gorm.io/gorm"
)

// Note represents a tenant-owned, user-owned record.
// TenantID scopes visibility; UserID (the creator) decides member-level
// mutation rights. Notes are visible tenant-wide once created.
type Note struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Content   string         `json:"content" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
