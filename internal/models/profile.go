package models

import (
	"time"
)

// Defaults substituted when a profile is created without them
const (
	DefaultDescription = "Default description"
	DefaultPicture     = "Default picture URL"
)

// SocialMedia holds optional social network handles of a profile
type SocialMedia struct {
	Facebook  string `gorm:"size:255" json:"facebook,omitempty"`
	Twitter   string `gorm:"size:255" json:"twitter,omitempty"`
	Instagram string `gorm:"size:255" json:"instagram,omitempty"`
}

// Profile represents the public profile of a user
type Profile struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Username    string      `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Picture     string      `gorm:"size:1024;not null" json:"picture"`
	SocialMedia SocialMedia `gorm:"embedded;embeddedPrefix:social_" json:"socialMedia"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for Profile model
func (Profile) TableName() string {
	return "profiles"
}
