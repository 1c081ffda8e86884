package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/pkg/auth"
)

// SessionService manages DB-backed user sessions.
// Implements auth.SessionValidator.
type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a SessionService issuing sessions that last ttl.
func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, ttl time.Duration) *SessionService {
	return &SessionService{sessions: sessions, users: users, ttl: ttl, now: time.Now}
}

var _ auth.SessionValidator = (*SessionService)(nil)

// CreateSession generates a new opaque token, stores it, and returns the session.
func (s *SessionService) CreateSession(ctx context.Context, userID int64) (*model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("session token generation failed", "error", err)
		return nil, err
	}
	now := s.now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		slog.Error("session insert failed", "error", err, "user_id", userID)
		return nil, err
	}
	slog.Debug("session created", "user_id", userID, "expires_at", session.ExpiresAt)
	return session, nil
}

// ValidateSession resolves a token to the logged-in user.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (*auth.Principal, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("invalid_session")
		}
		return nil, err
	}

	if session.Expired(s.now()) {
		_ = s.sessions.DeleteByToken(ctx, token)
		return nil, errors.New("session_expired")
	}

	u, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return &auth.Principal{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}, nil
}

// DeleteSession removes a session (logout).
func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}

// DeleteAllSessions removes all sessions for a user (forced logout).
func (s *SessionService) DeleteAllSessions(ctx context.Context, userID int64) error {
	return s.sessions.DeleteByUserID(ctx, userID)
}
