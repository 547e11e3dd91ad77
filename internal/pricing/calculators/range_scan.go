package calculators

import (
	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// RangeScanCalculator prices reads that walk many rows to return few. Both
// the rows examined and the bytes returned carry marginal charges, which is
// what makes a large scan cost more per unit than a point operation.
type RangeScanCalculator struct {
	BaseCalculator
}

// RU calculates the request units consumed by the observed range scans
func (rc *RangeScanCalculator) RU(t mysql.OperationTotals, f models.RUFormula) float64 {
	ru := float64(t.Operations) * f.BaseRU
	ru += rc.marginalRU(t.Rows, t.Operations, f.FreeRows, f.PerRowRU)
	ru += rc.marginalRU(t.Bytes, t.Operations, f.FreeBytes, f.PerByteRU)
	return rc.RoundRU(ru)
}
