package repositories

import "context"

// TxFn is a function that runs within a transaction. The context it
// receives carries the open transaction (see SetTx), so repository calls
// made through it participate automatically.
type TxFn func(ctx context.Context) error

// Operation is one unit of work in an ordered batch. It receives the
// shared transaction-bound context and returns its result.
type Operation func(ctx context.Context) (any, error)

// TransactionManager executes work against one connection-bound
// transaction. It is stateless beyond the pool reference and safe for
// concurrent use; each call obtains its own transaction.
type TransactionManager interface {
	// ExecTx runs fn inside a transaction, committing if fn returns nil
	// and rolling back otherwise. fn's error is returned unchanged.
	ExecTx(ctx context.Context, fn TxFn) error

	// ExecOps runs an ordered, non-empty list of operations inside one
	// transaction and returns their results in order. The first failing
	// operation aborts the batch; its error is returned unchanged after
	// rollback, so callers can still distinguish causes with errors.Is.
	ExecOps(ctx context.Context, ops []Operation) ([]any, error)
}
