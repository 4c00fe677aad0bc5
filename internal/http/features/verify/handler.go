package verify

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/collectivehq/admin-gate/internal/http/middleware"
	"github.com/collectivehq/admin-gate/internal/httputil"
	"github.com/collectivehq/admin-gate/pkg/auth"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

// Handler handles second-factor verification for one realm.
type Handler struct {
	logger       *slog.Logger
	gate         *auth.GateService
	realm        domain.RealmConfig
	cookieSecure bool
}

// NewHandler creates a verify handler for a realm.
func NewHandler(logger *slog.Logger, gate *auth.GateService, realm domain.RealmConfig, cookieSecure bool) *Handler {
	return &Handler{
		logger:       logger,
		gate:         gate,
		realm:        realm,
		cookieSecure: cookieSecure,
	}
}

// VerifyRequest represents a verification submission.
type VerifyRequest struct {
	Secret string `json:"secret"`
}

// VerifyResponse is returned on grant.
type VerifyResponse struct {
	Granted     bool   `json:"granted"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Verify handles a verification submission.
// POST {prefix}/verify
//
// The cookie is only ever issued to a live principal; the route guard lets
// anonymous visitors view the verify page, but the grant itself requires a
// session.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetPrincipal(r.Context()); !ok {
		httputil.Error(w, http.StatusUnauthorized, "sign in first")
		return
	}

	var req VerifyRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.gate.Verify(h.realm, req.Secret); err != nil {
		if errors.Is(err, domain.ErrSecretNotConfigured) {
			h.logger.Error("verification secret not configured", "realm", h.realm.Realm)
			httputil.Error(w, http.StatusInternalServerError, "verification unavailable")
			return
		}
		// Generic message, no realm-secret detail.
		httputil.Error(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	httputil.SetVerificationCookie(w, h.realm, auth.VerificationTTL, h.cookieSecure)
	httputil.JSON(w, http.StatusOK, VerifyResponse{
		Granted:     true,
		RedirectURL: h.realm.DashboardPath(),
	})
}
