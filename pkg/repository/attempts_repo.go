package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/collectivehq/admin-gate/pkg/domain"
)

// AttemptsRepository persists the append-only login attempt log. It is pure
// I/O; lockout policy lives in the service layer.
type AttemptsRepository struct {
	db *sql.DB
}

// NewAttemptsRepository creates a new attempts repository.
func NewAttemptsRepository(db *sql.DB) *AttemptsRepository {
	return &AttemptsRepository{db: db}
}

// Append records one login attempt.
func (r *AttemptsRepository) Append(ctx context.Context, attempt *domain.LoginAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO login_attempts (id, email, success, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, attempt.ID, attempt.Email, attempt.Success, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("append login attempt: %w", err)
	}
	return nil
}

// RecentFailures returns failure timestamps for the email since the cutoff,
// newest first, ignoring failures before the email's last success.
func (r *AttemptsRepository) RecentFailures(ctx context.Context, email string, since time.Time, limit int) ([]time.Time, error) {
	query := `
		SELECT created_at
		FROM login_attempts
		WHERE email = $1
		  AND success = FALSE
		  AND created_at > $2
		  AND created_at > COALESCE(
			(SELECT MAX(created_at) FROM login_attempts WHERE email = $1 AND success = TRUE),
			'-infinity'::timestamptz)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, email, since, limit)
	if err != nil {
		return nil, fmt.Errorf("recent failures: %w", err)
	}
	defer rows.Close()

	var failures []time.Time
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, err
		}
		failures = append(failures, at)
	}
	return failures, rows.Err()
}

// DeleteBefore prunes attempt rows older than the cutoff.
func (r *AttemptsRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM login_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
