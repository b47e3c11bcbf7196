package domain

import "time"

// User mirrors the persisted representation in the users table.
// Email is stored lowercased and uniquely indexed.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	PasswordAlgo string
	FullName     *string
	Phone        *string
	IsActive     bool
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAuthenticate reports whether the account may establish new sessions.
func (u User) CanAuthenticate() bool {
	return u.IsActive
}
