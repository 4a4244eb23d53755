package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"messagewall/internal/dbx"
	"messagewall/internal/server/migrations"
	"messagewall/internal/server/records"
	"messagewall/internal/server/refreshtokens"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return records.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
