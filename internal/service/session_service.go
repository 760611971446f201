package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labseat/internal/config"
	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
	"github.com/labseat/pkg/keygen"
)

const sessionIssuer = "lab-reservation"

var ErrInvalidToken = errors.New("invalid token")

// SessionService issues and resolves session tokens. The token is a
// signed JWT whose jti names a session in the session store, so a
// session can be revoked before the token expires.
type SessionService struct {
	sessions SessionRepo
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions SessionRepo, cfg config.SessionConfig) *SessionService {
	return &SessionService{
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.SessionTTL(),
		now:      time.Now,
	}
}

// SessionClaims represents the JWT claims of a session token
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionToken is returned when a session is created
type SessionToken struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create starts a session for username
func (s *SessionService) Create(ctx context.Context, username string) (*SessionToken, error) {
	now := s.now()
	session := &models.Session{
		ID:        keygen.SessionID(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &SessionToken{
		Token:     tokenString,
		Username:  username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Resolve validates a session token and returns its live session
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*models.Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Username != claims.Username {
		return nil, ErrInvalidToken
	}

	return session, nil
}

// Revoke ends every session of username
func (s *SessionService) Revoke(ctx context.Context, username string) (int, error) {
	n, err := s.sessions.DeleteByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	return n, nil
}
