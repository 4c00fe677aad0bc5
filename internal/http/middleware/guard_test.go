package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		st   GuardState
		kind PathKind
		want domain.AccessDecision
	}{
		{"anonymous on login page", GuardState{}, PathLogin, domain.DecisionAllow},
		{"anonymous on verify page", GuardState{}, PathVerify, domain.DecisionAllow},
		{"anonymous on protected page", GuardState{}, PathProtected, domain.DecisionRedirectToLogin},

		{"unverified on login page", GuardState{HasPrincipal: true}, PathLogin, domain.DecisionRedirectToVerify},
		{"unverified on verify page", GuardState{HasPrincipal: true}, PathVerify, domain.DecisionAllow},
		{"unverified on protected page", GuardState{HasPrincipal: true}, PathProtected, domain.DecisionRedirectToVerify},

		{"verified on login page", GuardState{HasPrincipal: true, HasVerification: true}, PathLogin, domain.DecisionRedirectToDashboard},
		{"verified on verify page", GuardState{HasPrincipal: true, HasVerification: true}, PathVerify, domain.DecisionRedirectToDashboard},
		{"verified on protected page", GuardState{HasPrincipal: true, HasVerification: true}, PathProtected, domain.DecisionAllow},

		// Verification without a principal is impossible by construction in
		// the middleware, but the pure function must still fail closed.
		{"verification only on protected page", GuardState{HasVerification: true}, PathProtected, domain.DecisionRedirectToLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.st, tt.kind); got != tt.want {
				t.Errorf("Decide(%+v, %d) = %v, want %v", tt.st, tt.kind, got, tt.want)
			}
		})
	}
}

type fakeResolver struct {
	principal *domain.Principal
	err       error
}

func (f *fakeResolver) CurrentPrincipal(_ context.Context, token string) (*domain.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.principal != nil && token == "valid-token" {
		return f.principal, nil
	}
	return nil, domain.ErrInvalidToken
}

type fakeWhitelist struct {
	allowed map[string]bool
	err     error
}

func (f *fakeWhitelist) IsWhitelisted(_ context.Context, email string, _ domain.Realm) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[email], nil
}

func orgRealm() domain.RealmConfig {
	return domain.RealmConfig{
		Realm:            domain.RealmOrg,
		PathPrefix:       "/org/admin",
		VerifyCookieName: "org_admin_verified",
		VerifySecret:     "org-secret",
	}
}

func eventRealm() domain.RealmConfig {
	return domain.RealmConfig{
		Realm:            domain.RealmEvent,
		PathPrefix:       "/event/admin",
		VerifyCookieName: "event_admin_verified",
		VerifySecret:     "event-secret",
	}
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{Email: "x@y.com"}
}

func guardRequest(t *testing.T, realm domain.RealmConfig, resolver *fakeResolver, whitelist *fakeWhitelist, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Guard(realm, resolver, whitelist, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: "admin_session", Value: "valid-token"}
}

func verificationCookie(name string) *http.Cookie {
	return &http.Cookie{Name: name, Value: "verified"}
}

func TestGuard_AnonymousRedirectedToLogin(t *testing.T) {
	resolver := &fakeResolver{}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}

	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/login" {
		t.Errorf("Location = %q, want %q", loc, "/org/admin/login")
	}
}

func TestGuard_AnonymousAllowedOnLoginAndVerify(t *testing.T) {
	resolver := &fakeResolver{}
	whitelist := &fakeWhitelist{}

	for _, path := range []string{"/org/admin/login", "/org/admin/verify"} {
		rec := guardRequest(t, orgRealm(), resolver, whitelist, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestGuard_UnverifiedPrincipalRedirectedToVerify(t *testing.T) {
	resolver := &fakeResolver{principal: testPrincipal()}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}

	// Protected page redirects to verify
	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/", sessionCookie())
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/verify" {
		t.Errorf("Location = %q, want %q", loc, "/org/admin/verify")
	}

	// Login page sends authenticated-unverified principals to verify, not in
	rec = guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/login", sessionCookie())
	if rec.Code != http.StatusFound {
		t.Fatalf("login page status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/verify" {
		t.Errorf("login page Location = %q, want %q", loc, "/org/admin/verify")
	}

	// Verify page itself is reachable
	rec = guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/verify", sessionCookie())
	if rec.Code != http.StatusOK {
		t.Errorf("verify page status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGuard_VerifiedPrincipalAllowed(t *testing.T) {
	resolver := &fakeResolver{principal: testPrincipal()}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}

	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/",
		sessionCookie(), verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	// Login and verify pages bounce back to the dashboard
	for _, path := range []string{"/org/admin/login", "/org/admin/verify"} {
		rec := guardRequest(t, orgRealm(), resolver, whitelist, path,
			sessionCookie(), verificationCookie("org_admin_verified"))
		if rec.Code != http.StatusFound {
			t.Errorf("GET %s: status = %d, want %d", path, rec.Code, http.StatusFound)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != "/org/admin/" {
			t.Errorf("GET %s: Location = %q, want %q", path, loc, "/org/admin/")
		}
	}
}

func TestGuard_VerificationCookieWithoutSessionIgnored(t *testing.T) {
	// Expired/absent session invalidates verification even if the cookie
	// itself has not expired.
	resolver := &fakeResolver{}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}

	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/",
		verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/login" {
		t.Errorf("Location = %q, want %q", loc, "/org/admin/login")
	}
}

func TestGuard_RealmIsolation(t *testing.T) {
	resolver := &fakeResolver{principal: testPrincipal()}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}

	// An org verification cookie must not satisfy the event realm's guard.
	rec := guardRequest(t, eventRealm(), resolver, whitelist, "/event/admin/",
		sessionCookie(), verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/event/admin/verify" {
		t.Errorf("Location = %q, want %q", loc, "/event/admin/verify")
	}

	// And granting the event cookie changes nothing for org.
	rec = guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/",
		sessionCookie(), verificationCookie("event_admin_verified"))
	if loc := rec.Header().Get("Location"); loc != "/org/admin/verify" {
		t.Errorf("Location = %q, want %q", loc, "/org/admin/verify")
	}
}

func TestGuard_ResolverErrorFailsClosed(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("session backend down")}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}

	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/",
		sessionCookie(), verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/login" {
		t.Errorf("Location = %q, want %q (fail closed)", loc, "/org/admin/login")
	}
}

func TestGuard_RevokedWhitelistRedirectsToUnauthorized(t *testing.T) {
	resolver := &fakeResolver{principal: testPrincipal()}
	// Session still live, but membership has been revoked since issuance.
	whitelist := &fakeWhitelist{allowed: map[string]bool{}}

	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/",
		sessionCookie(), verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/unauthorized" {
		t.Errorf("Location = %q, want %q (not back into the login loop)", loc, "/org/admin/unauthorized")
	}

	// The unauthorized page itself stays reachable, no redirect cycle.
	rec = guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/unauthorized",
		sessionCookie(), verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusOK {
		t.Errorf("unauthorized page status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGuard_WhitelistErrorFailsClosed(t *testing.T) {
	resolver := &fakeResolver{principal: testPrincipal()}
	whitelist := &fakeWhitelist{err: errors.New("db down")}

	rec := guardRequest(t, orgRealm(), resolver, whitelist, "/org/admin/",
		sessionCookie(), verificationCookie("org_admin_verified"))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/org/admin/unauthorized" {
		t.Errorf("Location = %q, want %q", loc, "/org/admin/unauthorized")
	}
}

func TestGuard_PrincipalInContext(t *testing.T) {
	resolver := &fakeResolver{principal: testPrincipal()}
	whitelist := &fakeWhitelist{allowed: map[string]bool{"x@y.com": true}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got *domain.Principal
	handler := Guard(orgRealm(), resolver, whitelist, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/org/admin/", nil)
	req.AddCookie(sessionCookie())
	req.AddCookie(verificationCookie("org_admin_verified"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("principal not found in request context")
	}
	if got.Email != "x@y.com" {
		t.Errorf("principal email = %q, want %q", got.Email, "x@y.com")
	}
}
