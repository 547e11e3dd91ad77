package mysql

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/schollz/progressbar/v3"

	"rucost/internal/logging"
)

var (
	writePattern  = regexp.MustCompile(`(?i)^\s*(INSERT|UPDATE|REPLACE)\b`)
	deletePattern = regexp.MustCompile(`(?i)^\s*DELETE\b`)
	// Pulls the target table out of a normalized write statement digest.
	writeTablePattern = regexp.MustCompile("(?i)^\\s*(?:INSERT\\s+(?:IGNORE\\s+)?INTO|REPLACE\\s+INTO|UPDATE|DELETE\\s+FROM)\\s+`?([A-Za-z0-9_$]+)`?")
)

// SamplerConfig configures one sampling window
type SamplerConfig struct {
	Schema string
	Window time.Duration

	// ScanRatio is the rows-examined / rows-sent ratio above which a read
	// statement counts as a range scan instead of a point read.
	ScanRatio float64

	// ShowProgress renders a progress bar while the window elapses.
	ShowProgress bool
}

// Sampler observes the server's cumulative statement counters at the start
// and end of a bounded window and classifies the delta by operation kind.
// It issues only read-only counter queries.
type Sampler struct {
	db  *sql.DB
	cfg SamplerConfig
}

// NewSampler creates a Sampler for one run.
func NewSampler(db *sql.DB, cfg SamplerConfig) *Sampler {
	if cfg.ScanRatio <= 0 {
		cfg.ScanRatio = 4
	}
	return &Sampler{db: db, cfg: cfg}
}

// digestCounters holds the cumulative counters for one statement digest.
type digestCounters struct {
	text         string
	count        int64
	rowsExamined int64
	rowsSent     int64
	rowsAffected int64
}

// Sample runs one sampling window against the schema and folds the observed
// activity into a WorkloadSummary. Table statistics supply the average row
// size and secondary index counts used to weight the classified operations.
// All failures, including cancellation mid-window, surface as
// *SamplingUnavailable so the caller can degrade to the heuristic path.
func (s *Sampler) Sample(ctx context.Context, tables []TableStatistics) (*WorkloadSummary, error) {
	// A summary's window must be positive; the rate is a quotient over it.
	if s.cfg.Window <= 0 {
		return nil, &SamplingUnavailable{Reason: "sampling window must be greater than zero"}
	}

	enabled, err := PerformanceSchemaEnabled(ctx, s.db)
	if err != nil {
		return nil, &SamplingUnavailable{Reason: "cannot read performance_schema state", Err: err}
	}
	if !enabled {
		return nil, &SamplingUnavailable{Reason: "performance_schema is disabled on the server"}
	}

	logging.SampleStart(s.cfg.Schema, s.cfg.Window)

	before, err := s.snapshot(ctx)
	if err != nil {
		return nil, &SamplingUnavailable{Reason: "reading statement counters", Err: err}
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	after, err := s.snapshot(ctx)
	if err != nil {
		return nil, &SamplingUnavailable{Reason: "reading statement counters", Err: err}
	}

	samples := s.classify(before, after, tables, time.Now())
	summary := Summarize(s.cfg.Window, samples)

	logging.SampleComplete(s.cfg.Schema, summary.TotalOperations(), s.cfg.Window)
	return summary, nil
}

// wait suspends for the configured window without consuming CPU. The wait is
// interruptible; a cancelled window must never produce a summary.
func (s *Sampler) wait(ctx context.Context) error {
	var bar *progressbar.ProgressBar
	if s.cfg.ShowProgress {
		bar = progressbar.NewOptions(int(s.cfg.Window.Seconds()),
			progressbar.OptionSetDescription("Sampling workload"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowCount(),
		)
		defer func() { _ = bar.Finish() }()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		deadline := time.After(s.cfg.Window)
		for {
			select {
			case <-ticker.C:
				_ = bar.Add(1)
			case <-deadline:
				return nil
			case <-ctx.Done():
				return &SamplingUnavailable{Reason: "sampling window interrupted", Err: ctx.Err()}
			}
		}
	}

	select {
	case <-time.After(s.cfg.Window):
		return nil
	case <-ctx.Done():
		return &SamplingUnavailable{Reason: "sampling window interrupted", Err: ctx.Err()}
	}
}

// snapshot reads the cumulative statement digest counters for the schema.
func (s *Sampler) snapshot(ctx context.Context) (map[string]digestCounters, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DIGEST, IFNULL(DIGEST_TEXT, ''), COUNT_STAR, SUM_ROWS_EXAMINED, SUM_ROWS_SENT, SUM_ROWS_AFFECTED
		 FROM performance_schema.events_statements_summary_by_digest
		 WHERE SCHEMA_NAME = ?`, s.cfg.Schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]digestCounters)
	for rows.Next() {
		var (
			digest string
			c      digestCounters
		)
		if err := rows.Scan(&digest, &c.text, &c.count, &c.rowsExamined, &c.rowsSent, &c.rowsAffected); err != nil {
			return nil, err
		}
		counters[digest] = c
	}
	return counters, rows.Err()
}

// classify turns the counter deltas between two snapshots into operation
// samples. Byte volumes are estimated from the schema's average row size;
// each write additionally maintains every secondary index on its table.
func (s *Sampler) classify(before, after map[string]digestCounters, tables []TableStatistics, bucket time.Time) []OperationSample {
	avgRowLen, secondaryByTable, avgSecondary := indexProfile(tables)

	var samples []OperationSample
	for digest, end := range after {
		start := before[digest] // zero value when the digest is new
		count := end.count - start.count
		if count <= 0 {
			continue
		}
		examined := clampNonNegative(end.rowsExamined - start.rowsExamined)
		sent := clampNonNegative(end.rowsSent - start.rowsSent)
		affected := clampNonNegative(end.rowsAffected - start.rowsAffected)

		switch {
		case writePattern.MatchString(end.text), deletePattern.MatchString(end.text):
			kind := RowWrite
			if deletePattern.MatchString(end.text) {
				kind = Delete
			}
			samples = append(samples, OperationSample{
				Kind:   kind,
				Count:  count,
				Rows:   affected,
				Bytes:  affected * avgRowLen,
				Bucket: bucket,
			})
			// One index maintenance entry per secondary index on the target
			// table; fall back to the schema-wide average when the digest
			// does not name a table.
			secondary := avgSecondary
			if m := writeTablePattern.FindStringSubmatch(end.text); m != nil {
				if n, ok := secondaryByTable[m[1]]; ok {
					secondary = n
				}
			}
			if secondary > 0 {
				samples = append(samples, OperationSample{
					Kind:   IndexWrite,
					Count:  count * secondary,
					Rows:   affected * secondary,
					Bytes:  0,
					Bucket: bucket,
				})
			}
		default:
			// Reads: the examined/sent ratio separates index point lookups
			// from scans that touch many rows to return few.
			if float64(examined) > s.cfg.ScanRatio*float64(maxInt64(sent, 1)) {
				samples = append(samples, OperationSample{
					Kind:   RangeScan,
					Count:  count,
					Rows:   examined,
					Bytes:  sent * avgRowLen,
					Bucket: bucket,
				})
			} else {
				samples = append(samples, OperationSample{
					Kind:   PointRead,
					Count:  count,
					Rows:   sent,
					Bytes:  sent * avgRowLen,
					Bucket: bucket,
				})
			}
		}
	}
	return samples
}

// indexProfile derives the classification weights from table statistics.
func indexProfile(tables []TableStatistics) (avgRowLen int64, secondaryByTable map[string]int64, avgSecondary int64) {
	var totalBytes, totalRows, totalSecondary int64
	secondaryByTable = make(map[string]int64, len(tables))
	for _, t := range tables {
		totalBytes += t.DataBytes + t.IndexBytes
		totalRows += t.Rows
		n := t.SecondaryIndexes()
		secondaryByTable[t.Name] = n
		totalSecondary += n
	}
	avgRowLen = totalBytes / maxInt64(totalRows, 1)
	if avgRowLen <= 0 {
		avgRowLen = 1
	}
	if len(tables) > 0 {
		avgSecondary = totalSecondary / int64(len(tables))
	}
	return avgRowLen, secondaryByTable, avgSecondary
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
