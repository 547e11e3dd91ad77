package calculators

import (
	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// PointReadCalculator prices indexed single-row lookups. Rows never engage a
// marginal term here; a point read only grows past its base cost when the
// returned payload exceeds the free byte allowance.
type PointReadCalculator struct {
	BaseCalculator
}

// RU calculates the request units consumed by the observed point reads
func (pc *PointReadCalculator) RU(t mysql.OperationTotals, f models.RUFormula) float64 {
	ru := float64(t.Operations) * f.BaseRU
	ru += pc.marginalRU(t.Bytes, t.Operations, f.FreeBytes, f.PerByteRU)
	return pc.RoundRU(ru)
}
