package domain

import (
	"time"

	"github.com/google/uuid"
)

// FailureReason classifies why a login submission was rejected.
type FailureReason string

const (
	ReasonMissingFields      FailureReason = "missing_fields"
	ReasonWhitelistDenied    FailureReason = "whitelist_denied"
	ReasonLockedOut          FailureReason = "locked_out"
	ReasonInvalidCredentials FailureReason = "invalid_credentials"
	ReasonProviderError      FailureReason = "provider_error"
)

// LoginResult is the typed outcome of a login submission. On success
// RedirectURL points at the realm's verify page (console access still
// requires the second factor) and SessionToken carries the newly issued
// session credential for the transport layer to set as a cookie.
type LoginResult struct {
	Success          bool
	RedirectURL      string
	SessionToken     string
	Reason           FailureReason
	MinutesRemaining int // set only for ReasonLockedOut
}

// LoginAttempt is an immutable fact appended for every credential attempt
// that reaches password verification, successful or not.
type LoginAttempt struct {
	ID        uuid.UUID
	Email     string
	Success   bool
	CreatedAt time.Time
}

// LockoutRecord is the externally computed lockout state for an email.
// A nil LockedUntil means the email is not locked.
type LockoutRecord struct {
	LockedUntil *time.Time
}
