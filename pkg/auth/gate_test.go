package auth

import (
	"errors"
	"testing"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

func TestGateVerify(t *testing.T) {
	gate := NewGateService()
	realm := domain.RealmConfig{
		Realm:        domain.RealmOrg,
		VerifySecret: "operational-passphrase",
	}

	tests := []struct {
		name      string
		submitted string
		wantErr   error
	}{
		{"correct secret", "operational-passphrase", nil},
		{"wrong secret", "guess", domain.ErrVerificationDenied},
		{"empty submission", "", domain.ErrVerificationDenied},
		{"secret with prefix match only", "operational", domain.ErrVerificationDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Verify(realm, tt.submitted)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGateVerify_UnconfiguredSecretDenies(t *testing.T) {
	gate := NewGateService()
	realm := domain.RealmConfig{Realm: domain.RealmEvent}

	// A missing secret is a deployment error: even an empty submission must
	// not be granted.
	err := gate.Verify(realm, "")
	if !errors.Is(err, domain.ErrSecretNotConfigured) {
		t.Errorf("Verify() error = %v, want %v", err, domain.ErrSecretNotConfigured)
	}

	err = gate.Verify(realm, "anything")
	if !errors.Is(err, domain.ErrSecretNotConfigured) {
		t.Errorf("Verify() error = %v, want %v", err, domain.ErrSecretNotConfigured)
	}
}

func TestGateVerify_Idempotent(t *testing.T) {
	gate := NewGateService()
	realm := domain.RealmConfig{Realm: domain.RealmOrg, VerifySecret: "s"}

	for i := 0; i < 2; i++ {
		if err := gate.Verify(realm, "s"); err != nil {
			t.Fatalf("Verify() attempt %d error = %v, want nil", i+1, err)
		}
	}
}

func TestGateVerify_RealmsIndependent(t *testing.T) {
	gate := NewGateService()
	org := domain.RealmConfig{Realm: domain.RealmOrg, VerifySecret: "org-secret"}
	event := domain.RealmConfig{Realm: domain.RealmEvent, VerifySecret: "event-secret"}

	if err := gate.Verify(org, "event-secret"); !errors.Is(err, domain.ErrVerificationDenied) {
		t.Errorf("org gate accepted event secret: error = %v", err)
	}
	if err := gate.Verify(event, "org-secret"); !errors.Is(err, domain.ErrVerificationDenied) {
		t.Errorf("event gate accepted org secret: error = %v", err)
	}
}
