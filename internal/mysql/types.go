package mysql

import "time"

// OperationKind classifies a sampled database operation for pricing purposes.
// The set is closed; the RU formula lookup is exhaustive over these values and
// a missing entry is surfaced as a pricing lookup error, never skipped.
type OperationKind int

const (
	PointRead OperationKind = iota
	RangeScan
	IndexWrite
	RowWrite
	Delete
)

// Kinds lists every operation kind in a stable order.
var Kinds = []OperationKind{PointRead, RangeScan, IndexWrite, RowWrite, Delete}

func (k OperationKind) String() string {
	switch k {
	case PointRead:
		return "point_read"
	case RangeScan:
		return "range_scan"
	case IndexWrite:
		return "index_write"
	case RowWrite:
		return "row_write"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// IndexStatistics describes one index on a table
type IndexStatistics struct {
	Name        string   `json:"name" yaml:"name"`
	Columns     []string `json:"columns" yaml:"columns"`
	Cardinality int64    `json:"cardinality" yaml:"cardinality"`
	Unique      bool     `json:"unique" yaml:"unique"`
}

// TableStatistics holds the engine statistics for one table. Row counts and
// sizes come from information_schema and are estimates, not exact figures.
type TableStatistics struct {
	Name         string            `json:"name" yaml:"name"`
	Engine       string            `json:"engine" yaml:"engine"`
	Rows         int64             `json:"rows" yaml:"rows"`
	AvgRowLength int64             `json:"avg_row_length" yaml:"avg_row_length"`
	DataBytes    int64             `json:"data_bytes" yaml:"data_bytes"`
	IndexBytes   int64             `json:"index_bytes" yaml:"index_bytes"`
	Indexes      []IndexStatistics `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// SecondaryIndexes returns the number of indexes excluding the primary key.
func (t TableStatistics) SecondaryIndexes() int64 {
	var n int64
	for _, idx := range t.Indexes {
		if idx.Name != "PRIMARY" {
			n++
		}
	}
	return n
}

// OperationSample records one classified slice of activity observed during
// the sampling window. Samples are append-only.
type OperationSample struct {
	Kind   OperationKind `json:"kind" yaml:"kind"`
	Count  int64         `json:"count" yaml:"count"`
	Rows   int64         `json:"rows" yaml:"rows"`
	Bytes  int64         `json:"bytes" yaml:"bytes"`
	Bucket time.Time     `json:"bucket" yaml:"bucket"`
}

// OperationTotals aggregates samples of one kind over the window
type OperationTotals struct {
	Operations int64 `json:"operations" yaml:"operations"`
	Rows       int64 `json:"rows" yaml:"rows"`
	Bytes      int64 `json:"bytes" yaml:"bytes"`
}

// WorkloadSummary is the fold of all OperationSamples over a closed sampling
// window. It is immutable once built; Window is always greater than zero.
type WorkloadSummary struct {
	Window time.Duration                     `json:"window" yaml:"window"`
	Totals map[OperationKind]OperationTotals `json:"totals" yaml:"totals"`
}

// Summarize folds samples into a WorkloadSummary for the given window.
func Summarize(window time.Duration, samples []OperationSample) *WorkloadSummary {
	totals := make(map[OperationKind]OperationTotals)
	for _, s := range samples {
		t := totals[s.Kind]
		t.Operations += s.Count
		t.Rows += s.Rows
		t.Bytes += s.Bytes
		totals[s.Kind] = t
	}
	return &WorkloadSummary{Window: window, Totals: totals}
}

// TotalOperations returns the operation count across all kinds.
func (w *WorkloadSummary) TotalOperations() int64 {
	var n int64
	for _, t := range w.Totals {
		n += t.Operations
	}
	return n
}
