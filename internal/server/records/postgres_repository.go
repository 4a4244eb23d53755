package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"messagewall/internal/common"
	"messagewall/internal/dbx"
)

// uniqueViolationCode is the Postgres SQLSTATE for a unique constraint hit.
const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// recordColumns is the shared SELECT list. Nullable columns are collapsed to
// empty strings so the model stays free of sql.Null types.
const recordColumns = `id, name, email, password_hash,
	COALESCE(avatar_url, ''), COALESCE(message, ''), COALESCE(message_image, ''), created_at`

func scanRecord(row *sql.Row) (*Record, error) {
	rec := &Record{}
	err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash,
		&rec.AvatarURL, &rec.Message, &rec.MessageImage, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *Record) (*Record, error) {

	query :=
		`INSERT INTO user_message (name, email, password_hash)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.Name, rec.Email, rec.PasswordHash).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		// The UNIQUE constraint on email backstops concurrent signups that
		// both passed the pre-insert check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM user_message WHERE id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM user_message WHERE email = $1`
	return scanRecord(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) ListWithImage(ctx context.Context) ([]*Record, error) {
	query := `SELECT ` + recordColumns + `
		 FROM user_message
		 WHERE message_image IS NOT NULL
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec := &Record{}
		err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash,
			&rec.AvatarURL, &rec.Message, &rec.MessageImage, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recs, nil
}

func (r *PostgresRepository) UpdateMessage(ctx context.Context, userID, name, text, imageRef string) (*Record, error) {

	// Update-in-place keeps the one-message-per-user invariant: the row is
	// the user, so no insert can ever create a second message.
	query :=
		`UPDATE user_message
		 SET message = $2,
		     message_image = NULLIF($3, ''),
		     name = COALESCE(NULLIF($4, ''), name)
		 WHERE id = $1
		 RETURNING ` + recordColumns

	return scanRecord(r.db.QueryRowContext(ctx, query, userID, text, imageRef, name))
}

func (r *PostgresRepository) ClearMessageImage(ctx context.Context, userID string) error {

	query := `UPDATE user_message SET message_image = NULL WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, avatarURL, passwordHash string) (*Record, error) {

	query :=
		`UPDATE user_message
		 SET name = COALESCE(NULLIF($2, ''), name),
		     avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
		     password_hash = COALESCE(NULLIF($4, ''), password_hash)
		 WHERE id = $1
		 RETURNING ` + recordColumns

	return scanRecord(r.db.QueryRowContext(ctx, query, id, name, avatarURL, passwordHash))
}
