package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/security"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

// ErrNotAuthenticated indicates the presented session token is unknown,
// expired, or revoked. The three cases are deliberately indistinguishable.
var ErrNotAuthenticated = errors.New("not authenticated")

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionMetadata carries optional request attribution stored with a session.
type SessionMetadata struct {
	IP        *string
	UserAgent *string
}

// SessionService owns the session lifecycle: issuance, validation, and
// revocation. Raw tokens are handed to the caller exactly once at issuance and
// never persisted.
type SessionService struct {
	sessions port.SessionRepository
	events   port.EventPublisher
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(sessions port.SessionRepository, events port.EventPublisher, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions: sessions,
		events:   events,
		logger:   logger,
		ttl:      defaultSessionTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, primarily for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithTTL overrides the session lifetime.
func (s *SessionService) WithTTL(ttl time.Duration) *SessionService {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a session for the user and returns the raw bearer token
// alongside the persisted record. Only the SHA-256 digest is stored.
func (s *SessionService) Issue(ctx context.Context, userID string, meta SessionMetadata) (string, *domain.Session, error) {
	if userID == "" {
		return "", nil, fmt.Errorf("user id is required")
	}

	raw, err := security.GenerateSecureToken(security.SessionTokenBytes)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: security.HashToken(raw),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("persist session: %w", err)
	}

	return raw, &session, nil
}

// Validate resolves the raw token to its active session. Unknown, expired,
// and revoked tokens all yield ErrNotAuthenticated.
func (s *SessionService) Validate(ctx context.Context, rawToken string) (*domain.Session, error) {
	if rawToken == "" {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessions.GetValidByHash(ctx, security.HashToken(rawToken), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	return session, nil
}

// Revoke invalidates the session identified by the raw token. Revoking an
// unknown or already revoked token succeeds without effect.
func (s *SessionService) Revoke(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	if err := s.sessions.RevokeByHash(ctx, security.HashToken(rawToken), s.now()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// RevokeAll invalidates every active session for the user in one step and
// returns how many sessions were affected.
func (s *SessionService) RevokeAll(ctx context.Context, userID, revokedBy, reason string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user id is required")
	}

	now := s.now()
	count, err := s.sessions.RevokeAllForUser(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions for user: %w", err)
	}

	if count > 0 && s.events != nil {
		event := domain.SessionRevokedEvent{
			EventID:         uuid.NewString(),
			UserID:          userID,
			RevokedAt:       now,
			RevokedBy:       revokedBy,
			Reason:          reason,
			SessionsRevoked: count,
		}
		if err := s.events.PublishSessionRevoked(ctx, event); err != nil {
			s.logger.Warn("failed to publish session revoked event",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	return count, nil
}

// ListActive returns the user's active sessions.
func (s *SessionService) ListActive(ctx context.Context, userID string) ([]domain.Session, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
