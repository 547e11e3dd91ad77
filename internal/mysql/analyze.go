package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"rucost/internal/logging"
)

// AnalyzeTables refreshes the engine statistics for every base table in the
// schema. This is the one operation that can load a production server, so
// callers must obtain explicit confirmation before invoking it.
func AnalyzeTables(ctx context.Context, db *sql.DB, schema string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT TABLE_NAME FROM information_schema.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, schema)
	if err != nil {
		return &CollectionError{Schema: schema, Op: "table listing", Err: err}
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return &CollectionError{Schema: schema, Op: "table listing", Err: err}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return &CollectionError{Schema: schema, Op: "table listing", Err: err}
	}

	for _, table := range tables {
		logging.Warn("Analyzing table, press CTRL+C if you notice production impact", map[string]interface{}{
			"table": table,
		})
		if _, err := db.ExecContext(ctx, fmt.Sprintf("ANALYZE TABLE `%s`.`%s`", schema, table)); err != nil {
			return &CollectionError{Schema: schema, Op: "analyze " + table, Err: err}
		}
	}
	return nil
}
