package memory

import (
	"context"
	"sync"
	"time"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
)

// SessionRepository keeps sessions in a map; expired sessions are
// dropped lazily on access.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	now      func() time.Time
}

// NewSessionRepository creates an empty SessionRepository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

// Create stores a session
func (r *SessionRepository) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// Get retrieves a live session by id
func (r *SessionRepository) Get(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		delete(r.sessions, id)
		return nil, repository.ErrSessionNotFound
	}
	return &s, nil
}

// DeleteByUsername deletes every session of username and returns how
// many live sessions were removed
func (r *SessionRepository) DeleteByUsername(_ context.Context, username string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	now := r.now()
	for id, s := range r.sessions {
		if s.Username != username {
			continue
		}
		if !s.Expired(now) {
			n++
		}
		delete(r.sessions, id)
	}
	return n, nil
}
