package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// AdminsRepository handles admin account persistence.
type AdminsRepository struct {
	db *sql.DB
}

// NewAdminsRepository creates a new admins repository.
func NewAdminsRepository(db *sql.DB) *AdminsRepository {
	return &AdminsRepository{db: db}
}

// CreateTx creates a new admin within a transaction.
func (r *AdminsRepository) CreateTx(ctx context.Context, tx *sql.Tx, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query,
		admin.ID, admin.Email, admin.Name, admin.CreatedAt, admin.UpdatedAt,
	)
	return err
}

// GetByID retrieves an admin by ID.
func (r *AdminsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, created_at, updated_at
		FROM admins
		WHERE id = $1
	`
	admin := &domain.Admin{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&admin.ID, &admin.Email, &admin.Name, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// GetByEmail retrieves an admin by email.
func (r *AdminsRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, created_at, updated_at
		FROM admins
		WHERE email = $1
	`
	admin := &domain.Admin{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.Name, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// ExistsByEmail checks whether an admin with the email exists.
func (r *AdminsRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}
