// Package pgutil holds query helpers shared by the Postgres repositories.
package pgutil

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps query for a substring (I)LIKE match, escaping the
// wildcard characters it contains.
func LikePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// IsForeignKeyViolation reports whether err came from a foreign key
// constraint, optionally restricted to the named constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
