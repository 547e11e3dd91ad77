package calculators

import (
	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// secondsPerDay spreads the assumed daily scan volume into a steady rate
const secondsPerDay = 24 * 60 * 60

// HeuristicCalculator derives a request-unit rate from schema shape alone,
// for runs where no live activity could be observed. The assumption is
// deliberately pessimistic: the workload reads the entire data set once per
// day through range scans, and writes nothing. Callers must flag the result
// as low confidence.
type HeuristicCalculator struct {
	BaseCalculator
}

// RUPerSecond returns the assumed steady request-unit consumption rate for
// the schema, priced through the range scan formula.
func (hc *HeuristicCalculator) RUPerSecond(tables []mysql.TableStatistics, f models.RUFormula) float64 {
	if len(tables) == 0 {
		return 0
	}

	var totalRows, totalBytes int64
	for _, t := range tables {
		totalRows += t.Rows
		totalBytes += t.DataBytes + t.IndexBytes
	}

	// One full-table scan per table per day, spread uniformly.
	ops := float64(len(tables)) / secondsPerDay
	rows := float64(totalRows) / secondsPerDay
	bytes := float64(totalBytes) / secondsPerDay

	ru := ops*f.BaseRU + rows*f.PerRowRU + bytes*f.PerByteRU
	return hc.RoundRU(ru)
}
