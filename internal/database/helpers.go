package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a mutation matched no rows
var ErrNotFound = sql.ErrNoRows

// requireRowsAffected converts a zero-row mutation into ErrNotFound
func requireRowsAffected(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for %s: %w", entity, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// buildInQuery expands a query template containing one %s placeholder
// into positional parameters for the given ids.
func buildInQuery(template string, ids []uuid.UUID) (string, []interface{}, error) {
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("no ids provided")
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return fmt.Sprintf(template, strings.Join(placeholders, ", ")), args, nil
}
