package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Dump renders the full error chain, surfacing postgres diagnostics
// when a driver error is buried in the chain. Intended for logs only.
func Dump(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	depth := 0
	for err != nil {
		if depth > 0 {
			sb.WriteString(" <- ")
		}
		sb.WriteString(describe(err))
		err = stdErrors.Unwrap(err)
		depth++
	}
	return sb.String()
}

// describe looks at a single link only; unwrapping here would repeat
// the deepest driver error at every depth.
func describe(err error) string {
	switch e := err.(type) {
	case *pgconn.PgError:
		return fmt.Sprintf("pg(code=%s, constraint=%s, table=%s, detail=%s)",
			e.Code, e.ConstraintName, e.TableName, e.Detail)
	case *pq.Error:
		return fmt.Sprintf("pq(code=%s, constraint=%s, table=%s, detail=%s)",
			e.Code, e.Constraint, e.Table, e.Detail)
	case *Error:
		return fmt.Sprintf("%s(%s)", e.Code(), e.Message())
	}
	return err.Error()
}
