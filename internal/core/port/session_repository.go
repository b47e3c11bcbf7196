package port

import (
	"context"
	"time"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
)

// SessionRepository deals with session storage. Lookups are keyed by the
// SHA-256 digest of the bearer token, never by the raw value.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetValidByHash(ctx context.Context, tokenHash string, at time.Time) (*domain.Session, error)
	RevokeByHash(ctx context.Context, tokenHash string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int, error)
	ListActiveByUser(ctx context.Context, userID string, at time.Time) ([]domain.Session, error)
}
