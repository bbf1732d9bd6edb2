package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shulepay/shulepay/core"
)

// pgUniqueViolation is the postgres error code for duplicate unique keys.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}

// wrapErr tags a driver failure as a transport error so callers can tell
// "store unreachable" apart from domain errors.
func wrapErr(op string, err error) error {
	return core.NewTransportError(op, err)
}

// rollback discards tx; the original error wins over any rollback failure.
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}
