package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "pizza-service/internal/common/errors"
)

// Tables and columns the resolver may touch. Identifiers are interpolated
// into SQL, so they must come from this allowlist, never from callers.
var (
	resolvableTables = map[string]bool{
		"franchises": true,
		"stores":     true,
		"menu_items": true,
		"users":      true,
	}
	resolvableColumns = map[string]bool{
		"name":  true,
		"email": true,
		"title": true,
	}
)

// resolveID translates a human-readable key into the primary key of the
// matching row. It never fabricates missing rows: callers are responsible
// for pre-creating referenced entities.
func (db *DB) resolveID(ctx context.Context, q querier, column, value, table string) (int64, error) {
	if !resolvableTables[table] || !resolvableColumns[column] {
		return 0, apperrors.NewStoreError(fmt.Sprintf("unresolvable reference %s.%s", table, column), nil)
	}

	var id int64
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE %s=$1`, table, column), value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.NewNotFound(fmt.Sprintf("no %s matching %q", table, value))
	}
	if err != nil {
		return 0, apperrors.NewStoreError("resolving identifier", err)
	}
	return id, nil
}
