package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbshub/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose transaction fails the FailOn-th
// ExecContext call (1-based) with Err. Reads are not counted. It lets tests
// check that a multi-write use case rolls back as a whole.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(ctx, &failingTx{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// failingTx is used by one goroutine at a time, like the *sql.Tx it wraps.
type failingTx struct {
	db.DBTX
	execs  int
	failOn int
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execs++
	if f.execs == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
