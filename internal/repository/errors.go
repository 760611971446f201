package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrDuplicateKey        = errors.New("duplicate key")
)

// translate maps gorm errors onto repository errors.
// notFound is returned for gorm.ErrRecordNotFound.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
