package repository

import (
	"context"
	"database/sql"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// WhitelistRepository answers realm-scoped admin whitelist membership.
// Membership is authoritative per request: the route guard re-checks it for
// already-authenticated principals, so revoking a row takes effect without
// waiting for sessions to expire.
type WhitelistRepository struct {
	db *sql.DB
}

// NewWhitelistRepository creates a new whitelist repository.
func NewWhitelistRepository(db *sql.DB) *WhitelistRepository {
	return &WhitelistRepository{db: db}
}

// IsWhitelisted checks whether the email is whitelisted for the realm.
func (r *WhitelistRepository) IsWhitelisted(ctx context.Context, email string, realm domain.Realm) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM admin_whitelist WHERE email = $1 AND realm = $2)`
	err := r.db.QueryRowContext(ctx, query, email, string(realm)).Scan(&exists)
	return exists, err
}

// Add whitelists an email for a realm.
func (r *WhitelistRepository) Add(ctx context.Context, email string, realm domain.Realm) error {
	query := `
		INSERT INTO admin_whitelist (email, realm, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email, realm) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, email, string(realm))
	return err
}

// Remove drops an email from a realm's whitelist.
func (r *WhitelistRepository) Remove(ctx context.Context, email string, realm domain.Realm) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_whitelist WHERE email = $1 AND realm = $2`, email, string(realm))
	return err
}
