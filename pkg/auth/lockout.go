package auth

import (
	"context"
	"time"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// Default lockout policy: 5 failures within 15 minutes (with no intervening
// success) lock the email for 15 minutes from the most recent failure.
const (
	DefaultMaxFailedAttempts = 5
	DefaultFailureWindow     = 15 * time.Minute
	DefaultLockoutDuration   = 15 * time.Minute
)

// LockoutDecision is the user-facing interpretation of a lockout record.
type LockoutDecision struct {
	Locked           bool
	MinutesRemaining int
}

// InterpretLockout translates a raw lockout record into a decision. Minutes
// remaining round up: a lock expiring in one second still reports one
// minute, never zero while locked.
func InterpretLockout(rec domain.LockoutRecord, now time.Time) LockoutDecision {
	if rec.LockedUntil == nil || !rec.LockedUntil.After(now) {
		return LockoutDecision{}
	}
	remaining := rec.LockedUntil.Sub(now)
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	return LockoutDecision{Locked: true, MinutesRemaining: minutes}
}

// AttemptLog is the persistence boundary for the append-only login attempt
// log consumed by the lockout service.
type AttemptLog interface {
	Append(ctx context.Context, attempt *domain.LoginAttempt) error
	// RecentFailures returns timestamps of failures for email since the
	// cutoff, newest first, excluding anything before the email's last
	// successful attempt, capped at limit.
	RecentFailures(ctx context.Context, email string, since time.Time, limit int) ([]time.Time, error)
}

// LockoutConfig holds the lockout policy knobs.
type LockoutConfig struct {
	MaxFailures int
	Window      time.Duration
	Duration    time.Duration
}

// LockoutService is the lockout collaborator: it owns the policy that turns
// the attempt log into lockout records. Stores stay pure I/O.
type LockoutService struct {
	attempts AttemptLog
	config   LockoutConfig
}

// NewLockoutService creates a lockout service, filling zero config fields
// with the defaults.
func NewLockoutService(attempts AttemptLog, config LockoutConfig) *LockoutService {
	if config.MaxFailures == 0 {
		config.MaxFailures = DefaultMaxFailedAttempts
	}
	if config.Window == 0 {
		config.Window = DefaultFailureWindow
	}
	if config.Duration == 0 {
		config.Duration = DefaultLockoutDuration
	}
	return &LockoutService{attempts: attempts, config: config}
}

// LockoutStatus derives the current lockout record for an email from the
// attempt log. The record is computed, not stored, so concurrent attempts
// can never lose an increment.
func (s *LockoutService) LockoutStatus(ctx context.Context, email string) (domain.LockoutRecord, error) {
	now := time.Now()
	failures, err := s.attempts.RecentFailures(ctx, email, now.Add(-s.config.Window), s.config.MaxFailures)
	if err != nil {
		return domain.LockoutRecord{}, err
	}
	if len(failures) < s.config.MaxFailures {
		return domain.LockoutRecord{}, nil
	}
	lockedUntil := failures[0].Add(s.config.Duration)
	if !lockedUntil.After(now) {
		return domain.LockoutRecord{}, nil
	}
	return domain.LockoutRecord{LockedUntil: &lockedUntil}, nil
}

// RecordAttempt appends exactly one attempt row.
func (s *LockoutService) RecordAttempt(ctx context.Context, email string, success bool) error {
	return s.attempts.Append(ctx, &domain.LoginAttempt{
		Email:     email,
		Success:   success,
		CreatedAt: time.Now(),
	})
}
