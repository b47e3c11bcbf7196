package domain

import "time"

// Session represents a persisted login session. Only the SHA-256 digest of the
// bearer token is stored; the raw value exists solely in the client cookie.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	IP        *string
	UserAgent *string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// IsActive reports whether the session is still valid (not revoked and not expired at the supplied moment).
func (s Session) IsActive(at time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return s.ExpiresAt.After(at)
}

// Revoke marks the session as revoked.
// Returns true when the session changed state.
func (s *Session) Revoke(at time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	timeCopy := at
	s.RevokedAt = &timeCopy
	return true
}
