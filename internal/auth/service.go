// Package auth verifies credentials and resolves request principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/users"
)

// UserSource is the slice of the users repository auth needs.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (users.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (users.User, error)
}

// SessionAuditor records login and logout events for the audit trail.
type SessionAuditor interface {
	RecordLogin(ctx context.Context, userID uuid.UUID, sessionID string) error
	RecordLogout(ctx context.Context, sessionID string) error
}

// Service authenticates users against stored bcrypt hashes.
type Service struct {
	users   UserSource
	auditor SessionAuditor
	logger  *slog.Logger
}

// NewService builds an auth Service. Auditor may be nil.
func NewService(source UserSource, auditor SessionAuditor, logger *slog.Logger) *Service {
	return &Service{users: source, auditor: auditor, logger: logger}
}

// Authenticate verifies a username and password. Unknown users, wrong
// passwords and deactivated accounts all fail the same way so the response
// never leaks which part was wrong.
func (s *Service) Authenticate(ctx context.Context, username, password string) (users.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return users.User{}, httpx.ErrUnauthorized
		}
		return users.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.IsActive {
		return users.User{}, httpx.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return users.User{}, httpx.ErrUnauthorized
	}
	return u, nil
}

// Resolve loads the account behind a session user ID. Deactivated accounts
// lose access immediately even with a live session.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (users.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return users.User{}, err
	}
	if !u.IsActive {
		return users.User{}, httpx.ErrUnauthorized
	}
	return u, nil
}

// NoteLogin writes a login audit record.
func (s *Service) NoteLogin(ctx context.Context, userID uuid.UUID, sessionID string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.RecordLogin(ctx, userID, sessionID); err != nil {
		s.logger.Warn("login audit failed", "error", err)
	}
}

// NoteLogout writes a logout audit record.
func (s *Service) NoteLogout(ctx context.Context, sessionID string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.RecordLogout(ctx, sessionID); err != nil {
		s.logger.Warn("logout audit failed", "error", err)
	}
}
