package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"notes-service/internal/apperr"
	"notes-service/internal/model"
)

// TenantStore persists tenants.
type TenantStore struct {
	db *gorm.DB
}

func NewTenantStore(db *gorm.DB) *TenantStore {
	return &TenantStore{db: db}
}

// FindBySlug loads a tenant by its URL slug.
func (s *TenantStore) FindBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, result.Error
	}
	return &tenant, nil
}

// UpdatePlan sets the tenant's subscription plan and returns the updated
// row.
func (s *TenantStore) UpdatePlan(ctx context.Context, tenantID uint, plan string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).First(&tenant, tenantID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, result.Error
	}

	if err := s.db.WithContext(ctx).Model(&tenant).Update("plan", plan).Error; err != nil {
		return nil, err
	}
	tenant.Plan = plan
	return &tenant, nil
}
