// Package postgres implements the repository interfaces over database/sql
// with parameterized queries. No business logic lives here.
package postgres

import "database/sql"

// nullUUID maps an empty string to SQL NULL for nullable UUID columns.
func nullUUID(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// fromNull maps a scanned nullable column back to the model's empty string.
func fromNull(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
