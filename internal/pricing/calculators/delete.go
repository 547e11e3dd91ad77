package calculators

import (
	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// DeleteCalculator prices row removals. Deletes rewrite data pages and are
// weighted like writes.
type DeleteCalculator struct {
	RowWriteCalculator
}

// RU calculates the request units consumed by the observed deletes
func (dc *DeleteCalculator) RU(t mysql.OperationTotals, f models.RUFormula) float64 {
	return dc.RowWriteCalculator.RU(t, f)
}
