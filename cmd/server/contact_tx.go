package main

import (
	"context"
	"database/sql"
	"time"

	"contactgraph/internal/contact/service"
	"contactgraph/internal/contact/store"
	dErrors "contactgraph/pkg/domain-errors"
)

const defaultContactTxTimeout = 5 * time.Second

// contactPostgresTx runs each resolve inside a serializable transaction.
// Serializable isolation is what stops two concurrent resolves of the same
// never-seen pair from both observing "no match" and creating competing
// primaries; a serialization failure rolls the whole call back and the
// caller may retry.
type contactPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newContactPostgresTx(db *sql.DB) *contactPostgresTx {
	return &contactPostgresTx{db: db}
}

func (t *contactPostgresTx) RunInTx(ctx context.Context, fn func(store service.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultContactTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(store.NewPostgresTx(tx)); err != nil {
		return err
	}

	return tx.Commit()
}
