// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/katalvlaran/lvcorr/table"
)

// PostgresDriver is the database/sql driver name registered by lib/pq.
const PostgresDriver = "postgres"

// OpenPostgres opens a connection pool for dsn and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(PostgresDriver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("source: postgres ping: %w", err)
	}
	return db, nil
}

// Querier is the subset of *sql.DB and *sql.Tx used by QueryTable.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryTable runs query and loads its result set as a Table.
// Implementation:
//   - Stage 1: scan every row into driver values.
//   - Stage 2: render each value as text (NULL → missing) into a column builder.
//   - Stage 3: infer kinds as for CSV and assemble (key from WithKey).
//
// NA tokens apply to text values only; SQL NULL is always missing.
func QueryTable(ctx context.Context, q Querier, query string, args []any, opts ...Option) (*table.Table, error) {
	cfg := gatherOptions(opts...)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("source: query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("source: query: %w", err)
	}
	builders := make([]*columnBuilder, len(names))
	for j, name := range names {
		builders[j] = newColumnBuilder(name, 64)
	}

	// Stage 1 + 2 (Scan and render).
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("source: scan: %w", err)
		}
		for j, v := range values {
			s, null, err := sqlText(v)
			if err != nil {
				return nil, fmt.Errorf("source: column %q: %w", names[j], err)
			}
			builders[j].appendCell(s, null || cfg.isNA(s))
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("source: rows: %w", err)
	}

	// Stage 3 (Assemble).
	return buildTable(cfg.key, builders)
}

// sqlText renders one scanned driver value; the bool reports SQL NULL.
func sqlText(v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", true, nil
	case int64:
		return strconv.FormatInt(x, 10), false, nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), false, nil
	case bool:
		if x {
			return "1", false, nil
		}
		return "0", false, nil
	case []byte:
		return string(x), false, nil
	case string:
		return x, false, nil
	case time.Time:
		return x.Format(time.RFC3339Nano), false, nil
	default:
		return "", false, fmt.Errorf("%T: %w", v, ErrUnsupportedType)
	}
}
