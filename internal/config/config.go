package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	// Realm verification secrets. An empty secret leaves the realm's gate
	// denying everything until deployment is fixed.
	OrgVerifySecret   string
	EventVerifySecret string

	// Cookies
	CookieSecure bool

	// Lockout policy
	Lockout LockoutConfig

	// Transport hardening
	RateLimit          RateLimitConfig
	SecurityHeaders    SecurityHeadersConfig
	MaxRequestBodySize int64

	// Pages
	TemplatesDir string

	// Optional bootstrap admin, provisioned at startup if absent.
	BootstrapEmail    string
	BootstrapPassword string
}

// LockoutConfig holds the failure-count/window/duration lockout policy.
type LockoutConfig struct {
	MaxFailures    int
	WindowMinutes  int
	LockoutMinutes int
}

// RateLimitConfig holds IP rate limiting configuration.
type RateLimitConfig struct {
	Enabled               bool
	AuthRequestsPerWindow int
	AuthWindowMinutes     int
}

// SecurityHeadersConfig holds security header configuration.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "admin_gate"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Session defaults
		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "admin-gate"),
		SessionTTL: getEnvDuration("SESSION_TTL", 8*time.Hour),

		// Realm secrets
		OrgVerifySecret:   getEnv("ORG_VERIFY_SECRET", ""),
		EventVerifySecret: getEnv("EVENT_VERIFY_SECRET", ""),

		CookieSecure: getEnvBool("COOKIE_SECURE", true),

		Lockout: LockoutConfig{
			MaxFailures:    getEnvInt("LOCKOUT_MAX_FAILURES", 5),
			WindowMinutes:  getEnvInt("LOCKOUT_WINDOW_MINUTES", 15),
			LockoutMinutes: getEnvInt("LOCKOUT_DURATION_MINUTES", 15),
		},

		RateLimit: RateLimitConfig{
			Enabled:               getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequestsPerWindow: getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindowMinutes:     getEnvInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 1),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			CSP:                getEnv("SECURITY_CSP", "default-src 'self'"),
			HSTSMaxAge:         getEnvInt("SECURITY_HSTS_MAX_AGE", 31536000),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			XSSProtection:      getEnv("SECURITY_XSS_PROTECTION", "1; mode=block"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "strict-origin-when-cross-origin"),
			PermissionsPolicy:  getEnv("SECURITY_PERMISSIONS_POLICY", ""),
		},

		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 1<<20)),

		TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),

		BootstrapEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// Realms resolves the per-realm configuration once, at startup. Realms never
// share cookie names or secrets.
func (c *Config) Realms() []domain.RealmConfig {
	return []domain.RealmConfig{
		{
			Realm:            domain.RealmOrg,
			PathPrefix:       "/org/admin",
			VerifyCookieName: "org_admin_verified",
			VerifySecret:     c.OrgVerifySecret,
		},
		{
			Realm:            domain.RealmEvent,
			PathPrefix:       "/event/admin",
			VerifyCookieName: "event_admin_verified",
			VerifySecret:     c.EventVerifySecret,
		},
	}
}

// HasBootstrapAdmin reports whether a bootstrap admin is configured.
func (c *Config) HasBootstrapAdmin() bool {
	return c.BootstrapEmail != "" && c.BootstrapPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
