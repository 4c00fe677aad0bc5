package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is an administrator account known to the identity provider.
// Accounts are provisioned, not self-registered.
type Admin struct {
	ID        uuid.UUID
	Email     string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminCredential holds an admin's password credential.
type AdminCredential struct {
	AdminID           uuid.UUID
	PasswordHash      string
	PasswordUpdatedAt time.Time
}

// Principal is an authenticated identity resolved from a live session.
type Principal struct {
	AdminID   uuid.UUID
	SessionID uuid.UUID
	Email     string
}

// Session is a server-side record of an issued admin session, kept so
// sign-out can revoke it.
type Session struct {
	ID        uuid.UUID
	AdminID   uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	IP        string
	UserAgent string
}

// IsValid reports whether the session is neither revoked nor expired.
func (s *Session) IsValid() bool {
	if s.RevokedAt != nil {
		return false
	}
	return time.Now().Before(s.ExpiresAt)
}
