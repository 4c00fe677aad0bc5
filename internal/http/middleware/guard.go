package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/collectivehq/admin-gate/internal/httputil"
	"github.com/collectivehq/admin-gate/pkg/auth"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

type contextKey string

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey contextKey = "principal"

// PathKind classifies a request path relative to its realm's auth flow.
type PathKind int

const (
	PathLogin PathKind = iota
	PathVerify
	PathProtected
)

// GuardState is the per-request input to the access decision.
type GuardState struct {
	HasPrincipal    bool
	HasVerification bool
}

// Decide computes the access decision for one realm. Pure: no I/O, so the
// full table is unit-testable without a live request.
//
//	principal  verification  login page        verify page          other
//	absent     *             Allow             Allow                RedirectToLogin
//	present    absent        RedirectToVerify  Allow                RedirectToVerify
//	present    present       RedirectToDash    RedirectToDashboard  Allow
func Decide(st GuardState, kind PathKind) domain.AccessDecision {
	if !st.HasPrincipal {
		if kind == PathProtected {
			return domain.DecisionRedirectToLogin
		}
		return domain.DecisionAllow
	}
	if !st.HasVerification {
		if kind == PathVerify {
			return domain.DecisionAllow
		}
		return domain.DecisionRedirectToVerify
	}
	if kind == PathProtected {
		return domain.DecisionAllow
	}
	return domain.DecisionRedirectToDashboard
}

// PrincipalResolver resolves the current principal from a session token.
type PrincipalResolver interface {
	CurrentPrincipal(ctx context.Context, token string) (*domain.Principal, error)
}

// Guard creates the route guard middleware for one realm. It is built from
// that realm's config alone, so nothing granted in another realm can affect
// its evaluation. Any error resolving principal or verification state is
// treated as absent state: the guard never fails open and never raises.
func Guard(realm domain.RealmConfig, sessions PrincipalResolver, whitelist auth.WhitelistStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := resolvePrincipal(r, sessions)

			st := GuardState{
				HasPrincipal: principal != nil,
				// A verification cookie is never honored without a live
				// principal, even if the cookie itself has not expired.
				HasVerification: principal != nil && httputil.HasVerificationCookie(r, realm),
			}

			kind := classifyPath(r.URL.Path, realm)

			switch Decide(st, kind) {
			case domain.DecisionRedirectToLogin:
				http.Redirect(w, r, realm.LoginPath(), http.StatusFound)
				return
			case domain.DecisionRedirectToVerify:
				http.Redirect(w, r, realm.VerifyPath(), http.StatusFound)
				return
			case domain.DecisionRedirectToDashboard:
				http.Redirect(w, r, realm.DashboardPath(), http.StatusFound)
				return
			}

			// Whitelist membership can be revoked after a session was
			// issued, so protected pages re-check it. The unauthorized page
			// is exempt to avoid a redirect cycle.
			if principal != nil && kind == PathProtected && r.URL.Path != realm.UnauthorizedPath() {
				ok, err := whitelist.IsWhitelisted(r.Context(), principal.Email, realm.Realm)
				if err != nil {
					logger.Error("whitelist re-check failed", "realm", realm.Realm, "error", err)
				}
				if err != nil || !ok {
					http.Redirect(w, r, realm.UnauthorizedPath(), http.StatusFound)
					return
				}
			}

			ctx := r.Context()
			if principal != nil {
				ctx = context.WithValue(ctx, PrincipalKey, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolvePrincipal(r *http.Request, sessions PrincipalResolver) *domain.Principal {
	token, ok := httputil.GetSessionToken(r)
	if !ok {
		return nil
	}
	principal, err := sessions.CurrentPrincipal(r.Context(), token)
	if err != nil {
		return nil
	}
	return principal
}

func classifyPath(path string, realm domain.RealmConfig) PathKind {
	switch path {
	case realm.LoginPath():
		return PathLogin
	case realm.VerifyPath():
		return PathVerify
	default:
		return PathProtected
	}
}

// GetPrincipal extracts the principal from the request context.
func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*domain.Principal)
	return principal, ok
}
