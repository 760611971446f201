package repository

import (
	"github.com/labseat/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables of every stored entity
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Picture{},
		&models.Reservation{},
	)
}
