package domain

import "errors"

// Authentication errors
var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidToken       = errors.New("invalid token")
)

// Verification gate errors
var (
	ErrVerificationDenied  = errors.New("verification denied")
	ErrSecretNotConfigured = errors.New("verification secret not configured")
)
