package port

import (
	"context"
	"time"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
)

// ResetTokenRepository manages password reset token records.
type ResetTokenRepository interface {
	Create(ctx context.Context, token domain.PasswordResetToken) error
	// ConsumeIfValid atomically marks the token identified by tokenHash as used,
	// provided it is unused and unexpired at the supplied moment, and returns the
	// owning user id. Exactly one caller can win; all others receive
	// repository.ErrNotFound.
	ConsumeIfValid(ctx context.Context, tokenHash string, at time.Time) (userID string, err error)
}
