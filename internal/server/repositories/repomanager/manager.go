// Package repomanager hands out repositories bound to a database handle.
// Services pass either the shared *sql.DB or an open transaction, so the
// same repository code runs inside and outside transactions.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avelkers/carwash/internal/dbx"
	"github.com/avelkers/carwash/internal/server/repositories/sessions"
	"github.com/avelkers/carwash/internal/server/repositories/users"
)

// RepositoryManager builds repositories over a DBTX and owns schema migrations.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
