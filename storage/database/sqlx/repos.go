// Package sqlxrepos implements the domain repositories against postgres.
package sqlxrepos

import (
	"strconv"

	"github.com/gympoint/backend/core"
)

// getExec prefers the executor handed down by the service (a transaction)
// over the repository's own connection pool.
func getExec(repoExec core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repoExec
}

// itoa inlines trusted integers (page arithmetic) into LIMIT/OFFSET clauses,
// keeping the positional placeholders free for filter values.
func itoa(n int) string {
	return strconv.Itoa(n)
}
