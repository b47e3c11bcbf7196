package domain

import "time"

// UserRegisteredEvent represents the payload for hospital.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	RegisteredAt time.Time
	IPAddress    *string
	Metadata     map[string]any
}

// PasswordChangedEvent represents the payload for hospital.user.password.changed messages.
type PasswordChangedEvent struct {
	EventID         string
	UserID          string
	ChangedAt       time.Time
	ChangedBy       string
	SessionsRevoked int
	Metadata        map[string]any
}

// PasswordResetRequestedEvent represents the payload for hospital.user.password.reset_requested messages.
type PasswordResetRequestedEvent struct {
	EventID           string
	UserID            string
	RequestID         string
	RequestedAt       time.Time
	MaskedDestination string
	IPAddress         *string
	ExpiresAt         time.Time
	Metadata          map[string]any
}

// SessionRevokedEvent represents the payload for hospital.session.revoked messages.
type SessionRevokedEvent struct {
	EventID         string
	SessionID       string
	UserID          string
	RevokedAt       time.Time
	RevokedBy       string
	Reason          string
	SessionsRevoked int
	IPAddress       *string
	Metadata        map[string]any
}
