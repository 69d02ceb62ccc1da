package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notes-service/internal/apperr"
	"notes-service/internal/model"
	"notes-service/internal/policy"
)

// NoteStore persists notes. Every query is tenant-scoped: a note belonging
// to another tenant is indistinguishable from a note that does not exist.
type NoteStore struct {
	db *gorm.DB
}

func NewNoteStore(db *gorm.DB) *NoteStore {
	return &NoteStore{db: db}
}

// CreateWithQuota inserts a note after checking the tenant's plan quota
// inside a single transaction. The tenant row is locked for the duration,
// so two concurrent creations near the free-plan limit serialize and the
// cap holds; the check-then-insert sequence is atomic, not a soft limit.
func (s *NoteStore) CreateWithQuota(ctx context.Context, note *model.Note, freeLimit int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant model.Tenant
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tenant, note.TenantID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return result.Error
		}

		var count int64
		if err := tx.Model(&model.Note{}).Where("tenant_id = ?", note.TenantID).Count(&count).Error; err != nil {
			return err
		}

		if !policy.CanCreate(tenant.Plan, count, freeLimit) {
			return apperr.ErrQuotaExceeded
		}

		return tx.Create(note).Error
	})
}

// Get loads a note within the given tenant scope.
func (s *NoteStore) Get(ctx context.Context, tenantID, noteID uint) (*model.Note, error) {
	var note model.Note
	result := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&note, noteID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, result.Error
	}
	return &note, nil
}

// List returns all notes of a tenant, newest first.
func (s *NoteStore) List(ctx context.Context, tenantID uint) ([]model.Note, error) {
	var notes []model.Note
	result := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}
	return notes, nil
}

// Update persists new title and content on an already-loaded note.
func (s *NoteStore) Update(ctx context.Context, note *model.Note, title, content string) error {
	return s.db.WithContext(ctx).Model(note).Updates(map[string]interface{}{
		"title":   title,
		"content": content,
	}).Error
}

// Delete soft-deletes a note within the given tenant scope.
func (s *NoteStore) Delete(ctx context.Context, tenantID, noteID uint) error {
	result := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Delete(&model.Note{}, noteID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountByTenant returns the number of live notes a tenant holds.
func (s *NoteStore) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Note{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
