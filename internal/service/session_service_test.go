package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labseat/internal/config"
	"github.com/labseat/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService() *SessionService {
	return NewSessionService(memory.NewSessionRepository(), config.SessionConfig{Secret: "test-secret", TTLHours: 1})
}

func TestSessionService_CreateAndResolve(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	tok, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", tok.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	session, err := svc.Resolve(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestSessionService_RevokedTokenRejected(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	tok, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	n, err := svc.Revoke(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Resolve(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_ExpiredTokenRejected(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	tok, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Resolve(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_ForeignSignatureRejected(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	tok, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	other := NewSessionService(memory.NewSessionRepository(), config.SessionConfig{Secret: "other-secret"})
	_, err = other.Resolve(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_TamperedUsernameRejected(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	tok, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	// re-sign alice's session id for bob with the right key
	claims := &SessionClaims{}
	_, err = jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims.Username = "bob"
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_GarbageToken(t *testing.T) {
	_, err := newSessionService().Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
