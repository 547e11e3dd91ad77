package calculators

import (
	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// RowWriteCalculator prices data-page writes: a base charge per statement
// plus a marginal charge on the bytes written beyond the free allowance.
type RowWriteCalculator struct {
	BaseCalculator
}

// RU calculates the request units consumed by the observed row writes
func (wc *RowWriteCalculator) RU(t mysql.OperationTotals, f models.RUFormula) float64 {
	ru := float64(t.Operations) * f.BaseRU
	ru += wc.marginalRU(t.Bytes, t.Operations, f.FreeBytes, f.PerByteRU)
	return wc.RoundRU(ru)
}
