package service

import (
	"context"
	"fmt"
	"log"
	"time"
)

// AccountService handles account deletion
type AccountService struct {
	accountRepo AccountRepo
	sessions    SessionRepo
	feed        Broadcaster
	now         func() time.Time
}

// NewAccountService creates a new AccountService.
// feed may be nil.
func NewAccountService(accountRepo AccountRepo, sessions SessionRepo, feed Broadcaster) *AccountService {
	if feed == nil {
		feed = noopBroadcaster{}
	}
	return &AccountService{
		accountRepo: accountRepo,
		sessions:    sessions,
		feed:        feed,
		now:         time.Now,
	}
}

// DeleteUserRequest represents the account deletion request
type DeleteUserRequest struct {
	Username string `json:"username" binding:"required"`
}

// DeleteUser deletes the user with its profile, pictures and
// reservations, then ends its sessions. Nothing is deleted when the
// user or the profile does not exist.
func (s *AccountService) DeleteUser(ctx context.Context, username string) error {
	if err := s.accountRepo.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if _, err := s.sessions.DeleteByUsername(ctx, username); err != nil {
		log.Printf("[AccountService] Failed to revoke sessions of %s: %v", username, err)
	}

	s.feed.Broadcast(Event{
		Type:     EventAccountDeleted,
		Username: username,
		Time:     s.now(),
	})
	return nil
}
