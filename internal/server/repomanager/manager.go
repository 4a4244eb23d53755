// Package repomanager wires concrete repository implementations to a shared
// database handle, so services can obtain repositories bound either to the
// pooled connection or to an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"messagewall/internal/dbx"
	"messagewall/internal/server/records"
	"messagewall/internal/server/refreshtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
