// Package tx carries a SQL transaction through context so stores can join the
// caller's unit of work without widening their interfaces.
package tx

import (
	"context"
	"database/sql"
	"time"

	dErrors "onegov/pkg/domain-errors"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner executes fn as one all-or-nothing unit.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const defaultTxTimeout = 5 * time.Second

// SQLRunner opens a database transaction per call.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db, timeout: defaultTxTimeout}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// NopRunner runs fn directly. In-memory stores provide their own atomicity.
type NopRunner struct{}

func (NopRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// Atomic reports whether r undoes the writes of a failed fn. NopRunner does not.
func Atomic(r Runner) bool {
	switch r.(type) {
	case NopRunner, *NopRunner:
		return false
	default:
		return true
	}
}

// Ordered runs an audit record and the write it describes inside one unit of
// r. Under an atomic runner the record goes first so both commit together;
// otherwise it follows a successful write, so a refused write records nothing.
func Ordered(ctx context.Context, r Runner, record, write func(ctx context.Context) error) error {
	if Atomic(r) {
		if err := record(ctx); err != nil {
			return err
		}
		return write(ctx)
	}
	if err := write(ctx); err != nil {
		return err
	}
	return record(ctx)
}
