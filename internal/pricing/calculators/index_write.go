package calculators

import (
	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// IndexWriteCalculator prices secondary index maintenance. Each maintained
// index entry is a flat base charge; the payload is the key, already covered
// by the row write that triggered it.
type IndexWriteCalculator struct {
	BaseCalculator
}

// RU calculates the request units consumed by the observed index writes
func (ic *IndexWriteCalculator) RU(t mysql.OperationTotals, f models.RUFormula) float64 {
	return ic.RoundRU(float64(t.Operations) * f.BaseRU)
}
