package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans. The plan flag is the only billing-related state this
// service carries.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Tenant represents the tenant model stored in the database
// This is the core of our multi-tenant architecture: every user and every
// note belongs to exactly one tenant, and no data is visible across the
// boundary.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"` // immutable, used in URLs
	Name      string         `json:"name" gorm:"type:varchar(100)"`
	Plan      string         `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
