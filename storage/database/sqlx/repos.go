// Package sqlxrepos implements the domain repositories on Postgres via sqlx.
package sqlxrepos

import (
	"github.com/lib/pq"

	"github.com/sekolahku/backend/core"
)

// pq error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// getExec prefers the service-provided executor (a transaction) over the
// repository's default connection.
func getExec(repoExec core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repoExec
}

// violatedConstraint returns the constraint name when err is a pq
// unique or foreign-key violation, else "".
func violatedConstraint(err error) string {
	if pqErr, ok := err.(*pq.Error); ok {
		switch string(pqErr.Code) {
		case pqUniqueViolation, pqForeignKeyViolation:
			return pqErr.Constraint
		}
	}
	return ""
}
