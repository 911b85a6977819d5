package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parley/internal/domain/repositories"
)

// TransactionManager implements repositories.TransactionManager over a
// pgx connection pool. One instance is constructed at process start and
// shared; each call begins its own transaction, so concurrent use is safe.
type TransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool) repositories.TransactionManager {
	return &TransactionManager{pool: pool}
}

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Deferred rollback is a no-op after a successful commit
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	txCtx := repositories.SetTx(ctx, tx)

	// fn's error is returned unchanged so callers can match on it
	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ExecOps executes an ordered list of operations within one transaction
// and returns their results in order. The first failing operation aborts
// the batch; everything already executed is rolled back and the
// operation's error is returned as-is.
func (tm *TransactionManager) ExecOps(ctx context.Context, ops []repositories.Operation) ([]any, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("exec ops: empty operation list")
	}

	results := make([]any, 0, len(ops))
	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		for _, op := range ops {
			result, err := op(txCtx)
			if err != nil {
				return err
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}
