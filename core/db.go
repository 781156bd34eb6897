package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBExecutor is what repositories run their queries against. Both *sqlx.DB
// and *sqlx.Tx satisfy it, so a service can hand a repository its transaction.
type DBExecutor = sqlx.ExtContext

// Transactor runs fn within a single transaction; fn receives the transaction
// as a DBExecutor to pass down to repository calls. The transaction is rolled
// back if fn returns an error.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(exec DBExecutor) error) error
}
