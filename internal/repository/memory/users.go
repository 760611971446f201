package memory

import (
	"context"
	"errors"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
)

// UserRepository keeps users in a DB
type UserRepository struct {
	db *DB
}

// Create stores a user. A taken email yields repository.ErrDuplicateKey.
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}

	now := r.db.now()
	user.ID = r.db.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users = append(r.db.users, *user)
	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetByUsername retrieves the first user registered with username
func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ExistsByEmail checks if a user with email exists
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Count returns the number of stored users
func (r *UserRepository) Count() int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.users)
}
