package repository

import (
	"context"

	"github.com/labseat/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository handles profile and picture data access
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile. A taken username yields ErrDuplicateKey.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error, nil)
}

// List retrieves all profiles
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).Order("id").Find(&profiles).Error
	return profiles, err
}

// GetByUsername retrieves a profile by username
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	if err != nil {
		return nil, translate(err, ErrProfileNotFound)
	}
	return &profile, nil
}

// UpdateDescription overwrites the description of a profile
func (r *ProfileRepository) UpdateDescription(ctx context.Context, username, description string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("username = ?", username).
		Update("description", description)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetPicture points the profile at pictureURL and records the upload
// in the picture history, in one transaction.
func (r *ProfileRepository) SetPicture(ctx context.Context, username, pictureURL string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).
			Where("username = ?", username).
			Update("picture", pictureURL)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProfileNotFound
		}

		return tx.Create(&models.Picture{
			Username:   username,
			PictureURL: pictureURL,
		}).Error
	})
}

// ListPictures retrieves the upload history of a user, newest first
func (r *ProfileRepository) ListPictures(ctx context.Context, username string) ([]models.Picture, error) {
	var pictures []models.Picture
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at DESC, id DESC").
		Find(&pictures).Error
	return pictures, err
}

// ListPictureURLs returns every picture URL referenced by a profile or
// by the picture history
func (r *ProfileRepository) ListPictureURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Raw("SELECT picture FROM profiles UNION SELECT picture_url FROM pictures").
		Scan(&urls).Error
	return urls, err
}
