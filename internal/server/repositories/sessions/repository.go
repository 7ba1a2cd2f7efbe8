// Package sessions declares the repository contract for refresh sessions,
// the durable records behind issued refresh tokens.
package sessions

import (
	"context"
	"time"

	"github.com/avelkers/carwash/internal/server/models"
)

// Repository defines operations on refresh-session rows. Rows are created at
// login and at each rotation, flipped to revoked at rotation or logout, and
// never deleted.
type Repository interface {
	// Create stores a new active session for userID keyed by jti.
	// A duplicate jti surfaces as an error.
	Create(ctx context.Context, userID int64, jti string, expiresAt time.Time) error

	// FindByJTI looks a session up by its token identifier.
	// Implementations return common.ErrorNotFound when the jti is absent.
	FindByJTI(ctx context.Context, jti string) (*models.RefreshSession, error)

	// Revoke flips revoked to true and reports whether this call did the flip.
	// false means the row was already revoked or does not exist; the caller
	// decides whether that is an error.
	Revoke(ctx context.Context, jti string) (bool, error)
}
