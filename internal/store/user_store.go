package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"notes-service/internal/apperr"
	"notes-service/internal/model"
)

// UserStore persists users.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail loads a user with its tenant preloaded. Unknown emails come
// back as apperr.ErrNotFound; the login handler folds that into the generic
// invalid-credentials outcome.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).Preload("Tenant").Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// Create inserts a new user. A duplicate email surfaces as
// apperr.ErrConflict via gorm's translated duplicate-key error.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	result := s.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperr.ErrConflict
		}
		return result.Error
	}
	return nil
}
