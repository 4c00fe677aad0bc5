package auth

import (
	"crypto/subtle"
	"time"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// VerificationTTL is the lifetime of a granted verification cookie. It is
// independent of the principal session's own expiry; both must hold for
// console access.
const VerificationTTL = 24 * time.Hour

// VerificationSentinel is the fixed value of a granted verification cookie.
// The cookie is a capability flag, not the secret itself.
const VerificationSentinel = "verified"

// GateService implements the second-factor verification gate: a fixed
// per-realm operational secret, distinct from any individual's credentials,
// so the passphrase can rotate without touching accounts and accounts can be
// revoked without rotating the shared secret.
type GateService struct{}

// NewGateService creates a verification gate service.
func NewGateService() *GateService {
	return &GateService{}
}

// Verify compares the submitted secret against the realm's configured one.
// An unconfigured secret is a deployment error and always denies: it returns
// domain.ErrSecretNotConfigured so callers can distinguish it from a wrong
// submission (domain.ErrVerificationDenied). A nil return means granted.
func (s *GateService) Verify(realm domain.RealmConfig, submitted string) error {
	if realm.VerifySecret == "" {
		return domain.ErrSecretNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(realm.VerifySecret)) != 1 {
		return domain.ErrVerificationDenied
	}
	return nil
}
