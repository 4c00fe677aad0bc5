package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/collectivehq/admin-gate/pkg/domain"
	"github.com/collectivehq/admin-gate/pkg/repository"
)

// DefaultSessionTTL is the default lifetime of an admin session.
const DefaultSessionTTL = 8 * time.Hour

// SessionConfig holds session configuration.
type SessionConfig struct {
	SessionTTL time.Duration
	JWTSecret  []byte
	Issuer     string
}

// SessionClaims are the claims carried in a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// IssueSessionOpts holds request metadata recorded with a new session.
type IssueSessionOpts struct {
	IP        string
	UserAgent string
}

// SessionService is the identity provider: it verifies admin credentials,
// issues JWT session tokens backed by a revocable server-side record, and
// resolves principals from presented tokens.
type SessionService struct {
	config   SessionConfig
	admins   *repository.AdminsRepository
	creds    *repository.CredentialsRepository
	sessions *repository.SessionsRepository
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig, admins *repository.AdminsRepository, creds *repository.CredentialsRepository, sessions *repository.SessionsRepository) *SessionService {
	if config.SessionTTL == 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	return &SessionService{
		config:   config,
		admins:   admins,
		creds:    creds,
		sessions: sessions,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *SessionService) SessionTTL() time.Duration {
	return s.config.SessionTTL
}

// VerifyPassword checks an admin's credentials and issues a session token on
// success. Unknown email and wrong password both map to
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *SessionService) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	cred, err := s.creds.GetByAdminID(ctx, admin.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	return s.IssueSession(ctx, admin, IssueSessionOpts{})
}

// IssueSession creates a session for an already-verified admin.
func (s *SessionService) IssueSession(ctx context.Context, admin *domain.Admin, opts IssueSessionOpts) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.SessionTTL)

	sessionID := uuid.New()
	session := &domain.Session{
		ID:        sessionID,
		AdminID:   admin.ID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		IP:        opts.IP,
		UserAgent: opts.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        sessionID.String(),
		},
		Email: admin.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.JWTSecret)
}

// CurrentPrincipal resolves a session token to a principal. It validates the
// JWT and checks the server-side session record so revoked sessions stop
// resolving immediately.
func (s *SessionService) CurrentPrincipal(ctx context.Context, tokenString string) (*domain.Principal, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsValid() {
		if session.RevokedAt != nil {
			return nil, domain.ErrSessionRevoked
		}
		return nil, domain.ErrSessionExpired
	}

	return &domain.Principal{
		AdminID:   adminID,
		SessionID: sessionID,
		Email:     claims.Email,
	}, nil
}

// Invalidate revokes the session behind a token. An already-invalid token is
// not an error: sign-out is idempotent.
func (s *SessionService) Invalidate(ctx context.Context, tokenString string) error {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID)
}

func (s *SessionService) validateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
