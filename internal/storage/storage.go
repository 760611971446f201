// Package storage keeps uploaded profile pictures.
package storage

import (
	"errors"
	"time"
)

// ErrInvalidKey is returned for keys that would escape the storage root
var ErrInvalidKey = errors.New("invalid object key")

// Object describes one stored file
type Object struct {
	Key     string
	URL     string
	ModTime time.Time
}
