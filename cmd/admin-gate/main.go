package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/collectivehq/admin-gate/internal/config"
	httpserver "github.com/collectivehq/admin-gate/internal/http"
	"github.com/collectivehq/admin-gate/pkg/auth"
	"github.com/collectivehq/admin-gate/pkg/domain"
	"github.com/collectivehq/admin-gate/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.OrgVerifySecret == "" || cfg.EventVerifySecret == "" {
		logger.Warn("one or more realm verification secrets are unset; affected consoles will deny all verification")
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Initialize repositories
	adminsRepo := repository.NewAdminsRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	whitelistRepo := repository.NewWhitelistRepository(db)
	attemptsRepo := repository.NewAttemptsRepository(db)

	// Initialize services
	sessionService := auth.NewSessionService(auth.SessionConfig{
		SessionTTL: cfg.SessionTTL,
		JWTSecret:  []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
	}, adminsRepo, credsRepo, sessionsRepo)

	lockoutService := auth.NewLockoutService(attemptsRepo, auth.LockoutConfig{
		MaxFailures: cfg.Lockout.MaxFailures,
		Window:      time.Duration(cfg.Lockout.WindowMinutes) * time.Minute,
		Duration:    time.Duration(cfg.Lockout.LockoutMinutes) * time.Minute,
	})

	authenticator := auth.NewAuthenticator(sessionService, whitelistRepo, lockoutService, logger)
	gateService := auth.NewGateService()

	// Provision the bootstrap admin if configured and absent
	if cfg.HasBootstrapAdmin() {
		if err := bootstrapAdmin(db, adminsRepo, credsRepo, cfg); err != nil {
			logger.Error("failed to provision bootstrap admin", "error", err)
			os.Exit(1)
		}
	}

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		Authenticator:      authenticator,
		Sessions:           sessionService,
		GateService:        gateService,
		Whitelist:          whitelistRepo,
		Realms:             cfg.Realms(),
		SessionTTL:         cfg.SessionTTL,
		CookieSecure:       cfg.CookieSecure,
		TemplatesDir:       cfg.TemplatesDir,
		RateLimit:          cfg.RateLimit,
		SecurityHeaders:    cfg.SecurityHeaders,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

// bootstrapAdmin creates the configured admin account and credential if no
// account with that email exists yet.
func bootstrapAdmin(db *sql.DB, admins *repository.AdminsRepository, creds *repository.CredentialsRepository, cfg *config.Config) error {
	ctx := context.Background()

	exists, err := admins.ExistsByEmail(ctx, cfg.BootstrapEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(cfg.BootstrapPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &domain.Admin{
		ID:        uuid.New(),
		Email:     cfg.BootstrapEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cred := &domain.AdminCredential{
		AdminID:           admin.ID,
		PasswordHash:      hash,
		PasswordUpdatedAt: now,
	}

	return repository.Tx(ctx, db, func(tx *sql.Tx) error {
		if err := admins.CreateTx(ctx, tx, admin); err != nil {
			return err
		}
		return creds.CreateTx(ctx, tx, cred)
	})
}
