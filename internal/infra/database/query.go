package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// listQuery builds an owner-scoped SELECT with equality filters. Only
// whitelisted fields may be filtered on; a nil value means IS NULL.
func listQuery(table, columns string, filterable map[string]string, ownerID string, filters []entity.Filter) (string, []any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE user_id = $1", columns, table)
	args := []any{ownerID}

	for _, f := range filters {
		col, ok := filterable[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("%s: unknown filter field %q", table, f.Field)
		}
		if f.Value == nil {
			fmt.Fprintf(&b, " AND %s IS NULL", col)
			continue
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, " AND %s = $%d", col, len(args))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	return b.String(), args, nil
}

// mapErr turns a missing row or a dangling foreign key into ErrNotFound.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, pqErr.Constraint)
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func tagsArg(tags []string) any {
	if tags == nil {
		tags = []string{}
	}
	return pq.Array(tags)
}
