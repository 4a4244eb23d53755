// Package dbx holds the small database plumbing the record and token
// repositories share: the DBTX interface, which lets one repository
// implementation run against either *sql.DB or *sql.Tx, and a transaction
// helper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the repositories call. Passing a
// transaction instead of the pool moves a whole repository inside that
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// The registration flow uses it to keep the email-uniqueness check and the
// insert atomic:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := rm.Records(tx)
//	    // check + insert against the same tx
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
