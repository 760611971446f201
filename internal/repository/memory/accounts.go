package memory

import (
	"context"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
)

// AccountRepository deletes everything a user owns
type AccountRepository struct {
	db *DB
}

// DeleteByUsername removes the user, profile, pictures and reservations
// of username. Nothing is removed when the user or profile is missing.
func (r *AccountRepository) DeleteByUsername(_ context.Context, username string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	hasProfile, hasUser := false, false
	for _, p := range r.db.profiles {
		if p.Username == username {
			hasProfile = true
		}
	}
	for _, u := range r.db.users {
		if u.Username == username {
			hasUser = true
		}
	}
	if !hasProfile {
		return repository.ErrProfileNotFound
	}
	if !hasUser {
		return repository.ErrUserNotFound
	}

	r.db.users = filter(r.db.users, func(u models.User) bool { return u.Username != username })
	r.db.profiles = filter(r.db.profiles, func(p models.Profile) bool { return p.Username != username })
	r.db.pictures = filter(r.db.pictures, func(p models.Picture) bool { return p.Username != username })
	r.db.reservations = filter(r.db.reservations, func(res models.Reservation) bool { return res.Username != username })
	return nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
