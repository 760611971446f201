package service

import (
	"context"
	"io"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/storage"
)

// UserRepo is the user store used by AuthService
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ProfileRepo is the profile store used by ProfileService
type ProfileRepo interface {
	Create(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context) ([]models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateDescription(ctx context.Context, username, description string) error
	SetPicture(ctx context.Context, username, pictureURL string) error
	ListPictures(ctx context.Context, username string) ([]models.Picture, error)
	ListPictureURLs(ctx context.Context) ([]string, error)
}

// ReservationRepo is the reservation store used by ReservationService
type ReservationRepo interface {
	AddSlot(ctx context.Context, key models.ReservationKey, slot, requestTime string, anonymous bool) (*models.Reservation, error)
	List(ctx context.Context) ([]models.Reservation, error)
	Delete(ctx context.Context, key models.ReservationKey) (*models.Reservation, error)
	RemoveSlot(ctx context.Context, key models.ReservationKey, slot string) (*models.Reservation, error)
}

// AccountRepo deletes everything a user owns at once
type AccountRepo interface {
	DeleteByUsername(ctx context.Context, username string) error
}

// SessionRepo is the keyed session store
type SessionRepo interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	DeleteByUsername(ctx context.Context, username string) (int, error)
}

// FileStorage keeps uploaded pictures
type FileStorage interface {
	Save(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]storage.Object, error)
}

// Broadcaster fans events out to feed subscribers
type Broadcaster interface {
	Broadcast(v interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(interface{}) {}
