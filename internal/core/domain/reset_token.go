package domain

import "time"

// PasswordResetToken represents a single-use password reset artifact.
// As with sessions, only the SHA-256 digest of the raw token is persisted.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	IP        *string
	UserAgent *string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// IsExpired reports whether the token has elapsed its validity window.
func (t PasswordResetToken) IsExpired(at time.Time) bool {
	return !t.ExpiresAt.After(at)
}

// IsUsable reports whether the token can still be redeemed at the supplied moment.
func (t PasswordResetToken) IsUsable(at time.Time) bool {
	return t.UsedAt == nil && !t.IsExpired(at)
}

// Consume marks the token as used.
// Returns true when the token transitions from unused to used.
func (t *PasswordResetToken) Consume(at time.Time) bool {
	if t.UsedAt != nil {
		return false
	}
	timeCopy := at
	t.UsedAt = &timeCopy
	return true
}
