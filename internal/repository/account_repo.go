package repository

import (
	"context"

	"github.com/labseat/internal/models"
	"gorm.io/gorm"
)

// AccountRepository handles operations spanning every table a user owns
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// DeleteByUsername deletes the user, its profile, pictures and
// reservations in one transaction. If either the user or the profile
// does not exist nothing is deleted.
func (r *AccountRepository) DeleteByUsername(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("username = ?", username).Delete(&models.Picture{}).Error; err != nil {
			return err
		}

		result := tx.Where("username = ?", username).Delete(&models.Profile{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProfileNotFound
		}

		result = tx.Where("username = ?", username).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
