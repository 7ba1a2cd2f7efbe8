package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avelkers/carwash/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+refresh_token\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`

	expires := time.Now().Add(30 * 24 * time.Hour)
	mock.ExpectExec(q).
		WithArgs(int64(1), "jti-1", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), 1, "jti-1", expires)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+refresh_token`).
		WithArgs(int64(1), "jti-1", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), 1, "jti-1", time.Now())
	if err == nil || !regexp.MustCompile(`error performing sql request: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByJTI_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+refresh_token\s+WHERE\s+jti\s*=\s*\$1`

	expires := time.Now().Add(time.Hour)
	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "jti", "revoked", "expires_at", "created_at"}).
			AddRow(int64(5), int64(1), "jti-1", false, expires, created))

	s, err := repo.FindByJTI(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UserID != 1 || s.JTI != "jti-1" || s.Revoked {
		t.Fatalf("unexpected session: %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByJTI_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+refresh_token`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByJTI(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestRevoke_Flipped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+refresh_token\s+SET\s+revoked\s*=\s*true\s+WHERE\s+jti\s*=\s*\$1\s+AND\s+revoked\s*=\s*false`

	mock.ExpectExec(q).
		WithArgs("jti-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Revoke(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected revoke to report a flipped row")
	}
}

func TestRevoke_AlreadyRevoked(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+refresh_token`).
		WithArgs("jti-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Revoke(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected revoke of an already-revoked session to report false")
	}
}

func TestRevoke_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+refresh_token`).
		WithArgs("jti-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.Revoke(context.Background(), "jti-1")
	if err == nil {
		t.Fatal("expected error")
	}
}
