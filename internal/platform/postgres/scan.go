package postgres

import (
	"database/sql"

	"github.com/phrazzld/tasktrack-api/internal/pagination"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// searchClause returns a WHERE clause matching any of columns against search
// with ILIKE, plus its single argument. An empty search matches every row.
func searchClause(search string, columns ...string) (string, []any) {
	if search == "" || len(columns) == 0 {
		return "", nil
	}
	clause := " WHERE "
	for i, column := range columns {
		if i > 0 {
			clause += " OR "
		}
		clause += column + " ILIKE $1"
	}
	return clause, []any{pagination.LikePattern(search)}
}
