package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"messagewall/internal/common"
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

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+refresh_tokens`).
		WithArgs("u1", "tok", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "u1", "tok", time.Hour); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+refresh_tokens`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "gone")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFind_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
		AddRow("1", "u1", "tok", expires, time.Now())
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+refresh_tokens`).
		WithArgs("tok").
		WillReturnRows(rows)

	rt, err := repo.Find(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if rt.UserID != "u1" || !rt.Expires.Equal(expires) {
		t.Fatalf("unexpected token: %+v", rt)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+refresh_tokens`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
