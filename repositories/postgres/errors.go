package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/allamaprabhu/management-api/repositories"
)

// uniqueViolation is the SQLSTATE for unique constraint violations
const uniqueViolation = "23505"

// translateError maps driver errors onto repository errors.
// Unique constraints follow the <table>_<field>_key naming convention.
func translateError(err error, table, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		field := strings.TrimSuffix(strings.TrimPrefix(pqErr.Constraint, table+"_"), "_key")
		if field == "" {
			field = "value"
		}
		return &repositories.DuplicateError{Field: field, Err: err}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
