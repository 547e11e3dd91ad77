package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"rucost/internal/logging"
	"rucost/internal/worker"
)

// Collector reads schema statistics from information_schema. It only ever
// issues read-only metadata queries.
type Collector struct {
	db   *sql.DB
	pool *worker.Pool
}

// NewCollector creates a Collector backed by the shared worker pool.
func NewCollector(db *sql.DB) *Collector {
	return &Collector{db: db, pool: worker.GetSharedPool()}
}

// NewCollectorWithPool creates a Collector with an explicit pool, for tests.
func NewCollectorWithPool(db *sql.DB, pool *worker.Pool) *Collector {
	return &Collector{db: db, pool: pool}
}

// Collect returns statistics for every base table in schema, ordered by table
// name. The per-table index queries fan out across the worker pool; the
// output ordering never depends on query completion order.
func (c *Collector) Collect(ctx context.Context, schema string) ([]TableStatistics, error) {
	if err := c.checkSchema(ctx, schema); err != nil {
		return nil, err
	}

	tables, err := c.readTables(ctx, schema)
	if err != nil {
		return nil, err
	}

	logging.CollectStart(schema, int(c.pool.GetMetrics().CurrentWorkers))

	// Index statistics fan out one task per table. Each task writes only its
	// own slot, so the merge is deterministic regardless of completion order.
	var (
		errMu    sync.Mutex
		firstErr error
	)
	tasks := make([]worker.Task, len(tables))
	for i := range tables {
		i := i
		tasks[i] = func(taskCtx context.Context) error {
			indexes, err := c.readIndexes(taskCtx, schema, tables[i].Name)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return err
			}
			tables[i].Indexes = indexes
			return nil
		}
	}
	c.pool.ExecuteTasks(tasks)

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	var dataBytes, indexBytes int64
	for _, t := range tables {
		dataBytes += t.DataBytes
		indexBytes += t.IndexBytes
	}
	logging.CollectComplete(schema, len(tables), dataBytes, indexBytes)

	return tables, nil
}

func (c *Collector) checkSchema(ctx context.Context, schema string) error {
	var name string
	err := c.db.QueryRowContext(ctx,
		"SELECT SCHEMA_NAME FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?", schema).Scan(&name)
	if err == sql.ErrNoRows {
		return &CollectionError{Schema: schema, Op: "schema lookup", Err: fmt.Errorf("schema does not exist")}
	}
	if err != nil {
		return &CollectionError{Schema: schema, Op: "schema lookup", Err: err}
	}
	return nil
}

func (c *Collector) readTables(ctx context.Context, schema string) ([]TableStatistics, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT TABLE_NAME, IFNULL(ENGINE, ''), IFNULL(TABLE_ROWS, 0), IFNULL(AVG_ROW_LENGTH, 0),
		        IFNULL(DATA_LENGTH, 0), IFNULL(INDEX_LENGTH, 0)
		 FROM information_schema.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`, schema)
	if err != nil {
		return nil, &CollectionError{Schema: schema, Op: "table statistics", Err: err}
	}
	defer rows.Close()

	var tables []TableStatistics
	for rows.Next() {
		var t TableStatistics
		if err := rows.Scan(&t.Name, &t.Engine, &t.Rows, &t.AvgRowLength, &t.DataBytes, &t.IndexBytes); err != nil {
			return nil, &CollectionError{Schema: schema, Op: "table statistics", Err: err}
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &CollectionError{Schema: schema, Op: "table statistics", Err: err}
	}
	return tables, nil
}

func (c *Collector) readIndexes(ctx context.Context, schema, table string) ([]IndexStatistics, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT INDEX_NAME, COLUMN_NAME, IFNULL(CARDINALITY, 0), NON_UNIQUE
		 FROM information_schema.STATISTICS
		 WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		 ORDER BY INDEX_NAME, SEQ_IN_INDEX`, schema, table)
	if err != nil {
		return nil, &CollectionError{Schema: schema, Op: "index statistics for " + table, Err: err}
	}
	defer rows.Close()

	var indexes []IndexStatistics
	for rows.Next() {
		var (
			name, column string
			cardinality  int64
			nonUnique    int
		)
		if err := rows.Scan(&name, &column, &cardinality, &nonUnique); err != nil {
			return nil, &CollectionError{Schema: schema, Op: "index statistics for " + table, Err: err}
		}
		// Multi-column indexes arrive as one row per column; extend the last
		// entry when the index name repeats.
		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			if cardinality > indexes[n-1].Cardinality {
				indexes[n-1].Cardinality = cardinality
			}
			continue
		}
		indexes = append(indexes, IndexStatistics{
			Name:        name,
			Columns:     []string{column},
			Cardinality: cardinality,
			Unique:      nonUnique == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &CollectionError{Schema: schema, Op: "index statistics for " + table, Err: err}
	}
	return indexes, nil
}
