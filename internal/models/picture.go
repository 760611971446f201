package models

import (
	"time"
)

// Picture records one uploaded profile picture
type Picture struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"index;size:100;not null" json:"username"`
	PictureURL string    `gorm:"size:1024;not null" json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name for Picture model
func (Picture) TableName() string {
	return "pictures"
}
