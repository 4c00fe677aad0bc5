package console

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/collectivehq/admin-gate/internal/httputil"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

// SessionInvalidator revokes the session behind a token.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, token string) error
}

// Handler handles console session endpoints for one realm.
type Handler struct {
	logger       *slog.Logger
	sessions     SessionInvalidator
	realm        domain.RealmConfig
	cookieSecure bool
}

// NewHandler creates a console handler for a realm.
func NewHandler(logger *slog.Logger, sessions SessionInvalidator, realm domain.RealmConfig, cookieSecure bool) *Handler {
	return &Handler{
		logger:       logger,
		sessions:     sessions,
		realm:        realm,
		cookieSecure: cookieSecure,
	}
}

// SignOutResponse is returned after sign-out.
type SignOutResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl"`
}

// SignOut invalidates the principal's session and revokes this realm's
// verification cookie.
// POST {prefix}/signout
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if token, ok := httputil.GetSessionToken(r); ok {
		if err := h.sessions.Invalidate(r.Context(), token); err != nil {
			h.logger.Error("failed to revoke session", "realm", h.realm.Realm, "error", err)
		}
	}

	httputil.ClearSessionCookie(w, h.cookieSecure)
	httputil.ClearVerificationCookie(w, h.realm, h.cookieSecure)

	httputil.JSON(w, http.StatusOK, SignOutResponse{
		Success:     true,
		RedirectURL: h.realm.LoginPath(),
	})
}
