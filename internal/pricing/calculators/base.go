package calculators

import "math"

// BaseCalculator provides common functionality for all request-unit calculators
type BaseCalculator struct{}

// RoundRU rounds a request-unit value to 4 decimal places
func (bc *BaseCalculator) RoundRU(ru float64) float64 {
	return math.Round(ru*10000) / 10000
}

// marginalRU charges perUnit for every unit beyond the free allowance, which
// accrues once per operation.
func (bc *BaseCalculator) marginalRU(quantity, operations, freePerOp int64, perUnit float64) float64 {
	if perUnit <= 0 {
		return 0
	}
	billable := quantity - operations*freePerOp
	if billable <= 0 {
		return 0
	}
	return float64(billable) * perUnit
}
