package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// CredentialsRepository handles admin password credential persistence.
type CredentialsRepository struct {
	db *sql.DB
}

// NewCredentialsRepository creates a new credentials repository.
func NewCredentialsRepository(db *sql.DB) *CredentialsRepository {
	return &CredentialsRepository{db: db}
}

// CreateTx creates a credential within a transaction.
func (r *CredentialsRepository) CreateTx(ctx context.Context, tx *sql.Tx, cred *domain.AdminCredential) error {
	query := `
		INSERT INTO admin_credentials (admin_id, password_hash, password_updated_at)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, cred.AdminID, cred.PasswordHash, cred.PasswordUpdatedAt)
	return err
}

// GetByAdminID retrieves the credential for an admin.
func (r *CredentialsRepository) GetByAdminID(ctx context.Context, adminID uuid.UUID) (*domain.AdminCredential, error) {
	query := `
		SELECT admin_id, password_hash, password_updated_at
		FROM admin_credentials
		WHERE admin_id = $1
	`
	cred := &domain.AdminCredential{}
	err := r.db.QueryRowContext(ctx, query, adminID).Scan(
		&cred.AdminID, &cred.PasswordHash, &cred.PasswordUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// Update replaces the credential for an admin.
func (r *CredentialsRepository) Update(ctx context.Context, cred *domain.AdminCredential) error {
	query := `
		UPDATE admin_credentials
		SET password_hash = $2, password_updated_at = NOW()
		WHERE admin_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, cred.AdminID, cred.PasswordHash)
	return err
}
