package login

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/collectivehq/admin-gate/internal/httputil"
	"github.com/collectivehq/admin-gate/pkg/auth"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

// Handler handles login submissions for one realm.
type Handler struct {
	logger        *slog.Logger
	authenticator *auth.Authenticator
	realm         domain.RealmConfig
	sessionTTL    time.Duration
	cookieSecure  bool
}

// NewHandler creates a login handler for a realm.
func NewHandler(logger *slog.Logger, authenticator *auth.Authenticator, realm domain.RealmConfig, sessionTTL time.Duration, cookieSecure bool) *Handler {
	return &Handler{
		logger:        logger,
		authenticator: authenticator,
		realm:         realm,
		sessionTTL:    sessionTTL,
		cookieSecure:  cookieSecure,
	}
}

// LoginRequest represents a login submission.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on success.
type LoginResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Login handles a login submission.
// POST {prefix}/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	result := h.authenticator.Login(r.Context(), h.realm, req.Email, req.Password)
	if !result.Success {
		h.writeFailure(w, result)
		return
	}

	httputil.SetSessionCookie(w, result.SessionToken, h.sessionTTL, h.cookieSecure)
	httputil.JSON(w, http.StatusOK, LoginResponse{
		Success:     true,
		RedirectURL: result.RedirectURL,
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter, result domain.LoginResult) {
	switch result.Reason {
	case domain.ReasonMissingFields:
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
	case domain.ReasonWhitelistDenied:
		httputil.Error(w, http.StatusForbidden, "this email is not authorized for console access")
	case domain.ReasonLockedOut:
		httputil.Error(w, http.StatusForbidden, fmt.Sprintf(
			"account temporarily locked due to too many failed login attempts. Please try again in %d minutes.",
			result.MinutesRemaining))
	case domain.ReasonInvalidCredentials:
		// Generic on purpose: never reveal whether the email exists.
		httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
	default:
		httputil.Error(w, http.StatusInternalServerError, "authentication failed")
	}
}
