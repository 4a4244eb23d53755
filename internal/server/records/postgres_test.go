package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

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

func recordRows(recs ...*Record) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "avatar_url", "message", "message_image", "created_at",
	})
	for _, r := range recs {
		rows.AddRow(r.ID, r.Name, r.Email, r.PasswordHash, r.AvatarURL, r.Message, r.MessageImage, r.CreatedAt)
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u1", created)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+user_message`).
		WithArgs("Alice", "alice@example.com", "hash").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &Record{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u1" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCreate_UniqueViolationMapsToEmailTaken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+user_message`).
		WithArgs("Alice", "alice@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "user_message_email_key"})

	_, err := repo.Create(context.Background(), &Record{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"})
	if !errors.Is(err, common.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for a concurrent duplicate insert, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+user_message`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &Record{Name: "Alice", Email: "a@b.c", PasswordHash: "h"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+user_message\s+WHERE\s+email`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rec := &Record{ID: "u1", Name: "Alice", Email: "a@b.c", PasswordHash: "h",
		AvatarURL: "", Message: "hello", MessageImage: "http://img/1.png", CreatedAt: time.Now()}
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+user_message\s+WHERE\s+id`).
		WithArgs("u1").
		WillReturnRows(recordRows(rec))

	got, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "a@b.c" || !got.HasMessage() {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestListWithImage_OrderPreserved(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	a := &Record{ID: "u1", Email: "a@b.c", MessageImage: "img1", CreatedAt: now}
	b := &Record{ID: "u2", Email: "b@b.c", MessageImage: "img2", CreatedAt: now.Add(-time.Hour)}
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+user_message\s+WHERE\s+message_image\s+IS\s+NOT\s+NULL`).
		WillReturnRows(recordRows(a, b))

	got, err := repo.ListWithImage(context.Background())
	if err != nil {
		t.Fatalf("ListWithImage error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "u1" || got[1].ID != "u2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdateMessage_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+user_message`).
		WithArgs("missing", "text", "img", "name").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateMessage(context.Background(), "missing", "name", "text", "img")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearMessageImage_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+user_message\s+SET\s+message_image\s+=\s+NULL`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearMessageImage(context.Background(), "u1"); err != nil {
		t.Fatalf("ClearMessageImage error: %v", err)
	}
}

func TestClearMessageImage_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+user_message\s+SET\s+message_image\s+=\s+NULL`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClearMessageImage(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
