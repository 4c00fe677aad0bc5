package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/collectivehq/admin-gate/internal/config"
	"github.com/collectivehq/admin-gate/internal/http/features/console"
	"github.com/collectivehq/admin-gate/internal/http/features/login"
	"github.com/collectivehq/admin-gate/internal/http/features/pages"
	"github.com/collectivehq/admin-gate/internal/http/features/verify"
	"github.com/collectivehq/admin-gate/internal/http/middleware"
	"github.com/collectivehq/admin-gate/internal/httputil"
	"github.com/collectivehq/admin-gate/pkg/auth"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

// SessionStore is the slice of the session service the router needs:
// principal resolution for the guard and revocation for sign-out.
type SessionStore interface {
	CurrentPrincipal(ctx context.Context, token string) (*domain.Principal, error)
	Invalidate(ctx context.Context, token string) error
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Authenticator      *auth.Authenticator
	Sessions           SessionStore
	GateService        *auth.GateService
	Whitelist          auth.WhitelistStore
	Realms             []domain.RealmConfig
	SessionTTL         time.Duration
	CookieSecure       bool
	TemplatesDir       string
	RateLimit          config.RateLimitConfig
	SecurityHeaders    config.SecurityHeadersConfig
	MaxRequestBodySize int64
}

// NewRouter creates a new HTTP router with both realm gates registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authLimiter := middleware.AuthRateLimit(cfg.RateLimit, cfg.Logger)

	// Each realm is wired from its own config only; the guard, handlers,
	// and cookies of one realm cannot observe the other's state.
	for _, realm := range cfg.Realms {
		realm := realm

		pagesHandler, err := pages.NewHandler(cfg.TemplatesDir, realm)
		if err != nil {
			cfg.Logger.Error("failed to load page templates", "realm", realm.Realm, "error", err)
			continue
		}

		loginHandler := login.NewHandler(cfg.Logger, cfg.Authenticator, realm, cfg.SessionTTL, cfg.CookieSecure)
		verifyHandler := verify.NewHandler(cfg.Logger, cfg.GateService, realm, cfg.CookieSecure)
		consoleHandler := console.NewHandler(cfg.Logger, cfg.Sessions, realm, cfg.CookieSecure)

		r.Route(realm.PathPrefix, func(r chi.Router) {
			r.Use(middleware.Guard(realm, cfg.Sessions, cfg.Whitelist, cfg.Logger))

			r.Get("/", pagesHandler.Dashboard)
			r.Get("/login", pagesHandler.Login)
			r.Get("/verify", pagesHandler.Verify)
			r.Get("/unauthorized", pagesHandler.Unauthorized)

			r.Group(func(r chi.Router) {
				r.Use(authLimiter)
				r.Post("/login", loginHandler.Login)
				r.Post("/verify", verifyHandler.Verify)
			})

			r.Post("/signout", consoleHandler.SignOut)
		})
	}

	return r
}
