package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// IdentityProvider verifies credentials and issues session tokens.
type IdentityProvider interface {
	VerifyPassword(ctx context.Context, email, password string) (string, error)
}

// WhitelistStore answers realm-scoped whitelist membership.
type WhitelistStore interface {
	IsWhitelisted(ctx context.Context, email string, realm domain.Realm) (bool, error)
}

// LockoutStore exposes the lockout collaborator to the authenticator.
type LockoutStore interface {
	LockoutStatus(ctx context.Context, email string) (domain.LockoutRecord, error)
	RecordAttempt(ctx context.Context, email string, success bool) error
}

// Authenticator orchestrates a login submission: whitelist check, lockout
// check, password verification, attempt logging, typed outcome. Collaborator
// failures always fail closed.
type Authenticator struct {
	provider  IdentityProvider
	whitelist WhitelistStore
	lockout   LockoutStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthenticator creates an authenticator over the three collaborators.
func NewAuthenticator(provider IdentityProvider, whitelist WhitelistStore, lockout LockoutStore, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		provider:  provider,
		whitelist: whitelist,
		lockout:   lockout,
		logger:    logger,
		now:       time.Now,
	}
}

// Login runs the credential check for one realm, short-circuiting on the
// first failure. Exactly zero or one attempt rows are written per call:
// whitelist and lockout rejections happen before the attempt counts, and
// every call that reaches password verification logs exactly once.
func (a *Authenticator) Login(ctx context.Context, realm domain.RealmConfig, email, password string) domain.LoginResult {
	if email == "" || password == "" {
		return domain.LoginResult{Reason: domain.ReasonMissingFields}
	}

	whitelisted, err := a.whitelist.IsWhitelisted(ctx, email, realm.Realm)
	if err != nil {
		a.logger.Error("whitelist check failed", "realm", realm.Realm, "error", err)
		return domain.LoginResult{Reason: domain.ReasonProviderError}
	}
	if !whitelisted {
		return domain.LoginResult{Reason: domain.ReasonWhitelistDenied}
	}

	record, err := a.lockout.LockoutStatus(ctx, email)
	if err != nil {
		a.logger.Error("lockout status check failed", "realm", realm.Realm, "error", err)
		return domain.LoginResult{Reason: domain.ReasonProviderError}
	}
	if decision := InterpretLockout(record, a.now()); decision.Locked {
		return domain.LoginResult{
			Reason:           domain.ReasonLockedOut,
			MinutesRemaining: decision.MinutesRemaining,
		}
	}

	token, verifyErr := a.provider.VerifyPassword(ctx, email, password)
	if verifyErr != nil && !errors.Is(verifyErr, domain.ErrInvalidCredentials) {
		a.logger.Error("password verification failed", "realm", realm.Realm, "error", verifyErr)
		return domain.LoginResult{Reason: domain.ReasonProviderError}
	}
	success := verifyErr == nil

	// A dropped write here would let a success go uncounted, so a logging
	// failure discards the session and fails closed.
	if err := a.lockout.RecordAttempt(ctx, email, success); err != nil {
		a.logger.Error("failed to record login attempt", "realm", realm.Realm, "error", err)
		return domain.LoginResult{Reason: domain.ReasonProviderError}
	}

	if !success {
		return domain.LoginResult{Reason: domain.ReasonInvalidCredentials}
	}

	return domain.LoginResult{
		Success:      true,
		RedirectURL:  realm.VerifyPath(),
		SessionToken: token,
	}
}
