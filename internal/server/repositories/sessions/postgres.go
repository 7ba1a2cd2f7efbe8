// Package sessions provides a PostgreSQL-backed repository for refresh
// sessions used in the server's authentication flow.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avelkers/carwash/internal/common"
	"github.com/avelkers/carwash/internal/dbx"
	"github.com/avelkers/carwash/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new active session row for userID keyed by jti.
func (r *PostgresRepository) Create(ctx context.Context, userID int64, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_token (user_id, jti, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, jti, expiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// FindByJTI returns the session row for the given token identifier.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByJTI(ctx context.Context, jti string) (*models.RefreshSession, error) {
	query := `
		SELECT id, user_id, jti, revoked, expires_at, created_at
		FROM refresh_token
		WHERE jti = $1
	`
	session := &models.RefreshSession{}
	err := r.db.QueryRowContext(ctx, query, jti).Scan(
		&session.ID, &session.UserID, &session.JTI,
		&session.Revoked, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

// Revoke flips the revoked flag with a compare-and-set on revoked = false.
// The affected-row count decides concurrent rotations: the loser sees false.
func (r *PostgresRepository) Revoke(ctx context.Context, jti string) (bool, error) {
	query := `
		UPDATE refresh_token
		SET revoked = true
		WHERE jti = $1 AND revoked = false
	`
	res, err := r.db.ExecContext(ctx, query, jti)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
