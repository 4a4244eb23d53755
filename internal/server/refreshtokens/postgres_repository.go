package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messagewall/internal/common"
	"messagewall/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {

	query :=
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity))

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {

	query :=
		`SELECT id, user_id, token, expires_at, created_at
		 FROM refresh_tokens
		 WHERE token = $1
		 `

	rt := &RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.Expires, &rt.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rt, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {

	query := `DELETE FROM refresh_tokens WHERE token = $1`

	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
