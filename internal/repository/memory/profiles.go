package memory

import (
	"context"
	"sort"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
)

// ProfileRepository keeps profiles and the picture history in a DB
type ProfileRepository struct {
	db *DB
}

// Create stores a profile. A taken username yields repository.ErrDuplicateKey.
func (r *ProfileRepository) Create(_ context.Context, profile *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.find(profile.Username) >= 0 {
		return repository.ErrDuplicateKey
	}

	now := r.db.now()
	profile.ID = r.db.id()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.db.profiles = append(r.db.profiles, *profile)
	return nil
}

// List returns every profile
func (r *ProfileRepository) List(_ context.Context) ([]models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]models.Profile, len(r.db.profiles))
	copy(out, r.db.profiles)
	return out, nil
}

// GetByUsername retrieves a profile by username
func (r *ProfileRepository) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(username)
	if i < 0 {
		return nil, repository.ErrProfileNotFound
	}
	p := r.db.profiles[i]
	return &p, nil
}

// UpdateDescription overwrites the description of a profile
func (r *ProfileRepository) UpdateDescription(_ context.Context, username, description string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(username)
	if i < 0 {
		return repository.ErrProfileNotFound
	}
	r.db.profiles[i].Description = description
	r.db.profiles[i].UpdatedAt = r.db.now()
	return nil
}

// SetPicture points the profile at pictureURL and records the upload
func (r *ProfileRepository) SetPicture(_ context.Context, username, pictureURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(username)
	if i < 0 {
		return repository.ErrProfileNotFound
	}
	now := r.db.now()
	r.db.profiles[i].Picture = pictureURL
	r.db.profiles[i].UpdatedAt = now
	r.db.pictures = append(r.db.pictures, models.Picture{
		ID:         r.db.id(),
		Username:   username,
		PictureURL: pictureURL,
		CreatedAt:  now,
	})
	return nil
}

// ListPictures returns the upload history of a user, newest first
func (r *ProfileRepository) ListPictures(_ context.Context, username string) ([]models.Picture, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Picture
	for _, p := range r.db.pictures {
		if p.Username == username {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListPictureURLs returns every picture URL referenced by a profile or the history
func (r *ProfileRepository) ListPictureURLs(_ context.Context) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	for _, p := range r.db.profiles {
		add(p.Picture)
	}
	for _, p := range r.db.pictures {
		add(p.PictureURL)
	}
	return urls, nil
}

// find returns the index of the profile of username, or -1.
// Callers hold the lock.
func (r *ProfileRepository) find(username string) int {
	for i, p := range r.db.profiles {
		if p.Username == username {
			return i
		}
	}
	return -1
}
