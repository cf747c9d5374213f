package store

import (
	"context"
	"errors"

	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore is the user directory consulted for notification audiences.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindVerifiedApprovedUsers returns every notification-eligible user,
// regardless of role.
func (s *UserStore) FindVerifiedApprovedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("is_verified = ? AND verification_status = ?", true, models.VerificationApproved).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindVerifiedApprovedUsersByRole narrows the eligible population to the
// given roles.
func (s *UserStore) FindVerifiedApprovedUsersByRole(ctx context.Context, roles []string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("is_verified = ? AND verification_status = ? AND user_type IN ?", true, models.VerificationApproved, roles).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
