package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rucost/internal/logging"
	"rucost/internal/mysql"
	"rucost/internal/pricing/calculators"
	pricingconfig "rucost/internal/pricing/config"
	"rucost/internal/pricing/models"
)

// PricingLookupError reports a pricing table that lacks the formula for an
// operation kind the workload produced. This is a schedule/version mismatch
// and must abort the run rather than silently underprice the estimate.
type PricingLookupError struct {
	Kind   mysql.OperationKind
	Region string
}

func (e *PricingLookupError) Error() string {
	return fmt.Sprintf("pricing table for region %q has no formula for operation kind %q", e.Region, e.Kind)
}

// ruCalculator prices one operation kind's aggregated activity
type ruCalculator interface {
	RU(t mysql.OperationTotals, f models.RUFormula) float64
}

// CostEstimator maps workload activity onto the request-unit schedule.
// Stateless after construction; every method is a pure function of its
// arguments, so repeated calls on the same inputs are bit-identical.
type CostEstimator struct {
	calculators map[mysql.OperationKind]ruCalculator
	storage     *calculators.StorageCalculator
	heuristic   *calculators.HeuristicCalculator
}

// NewCostEstimator creates a CostEstimator with the full calculator set
func NewCostEstimator() *CostEstimator {
	return &CostEstimator{
		calculators: map[mysql.OperationKind]ruCalculator{
			mysql.PointRead:  &calculators.PointReadCalculator{},
			mysql.RangeScan:  &calculators.RangeScanCalculator{},
			mysql.RowWrite:   &calculators.RowWriteCalculator{},
			mysql.IndexWrite: &calculators.IndexWriteCalculator{},
			mysql.Delete:     &calculators.DeleteCalculator{},
		},
		storage:   &calculators.StorageCalculator{},
		heuristic: &calculators.HeuristicCalculator{},
	}
}

// RateFromSummary prices a closed sampling window and returns the observed
// request-unit consumption rate per second. The rate is the exact quotient
// of window RU over window duration; no rounding happens before
// extrapolation.
func (ce *CostEstimator) RateFromSummary(summary *mysql.WorkloadSummary, pt *pricingconfig.Table) (float64, error) {
	var windowRU float64
	for _, kind := range mysql.Kinds {
		totals, ok := summary.Totals[kind]
		if !ok || totals.Operations == 0 {
			continue
		}
		formula, ok := pt.Formulas[kind]
		if !ok {
			return 0, &PricingLookupError{Kind: kind, Region: pt.Region}
		}
		calc, ok := ce.calculators[kind]
		if !ok {
			return 0, &PricingLookupError{Kind: kind, Region: pt.Region}
		}
		ru := calc.RU(totals, formula)
		logging.Debug("Priced operation kind", map[string]interface{}{
			"kind":       kind.String(),
			"operations": totals.Operations,
			"ru":         ru,
		})
		windowRU += ru
	}
	return windowRU / summary.Window.Seconds(), nil
}

// RateFromStatistics prices the static heuristic path using schema shape
// alone. Always low confidence; the caller appends the matching note.
func (ce *CostEstimator) RateFromStatistics(tables []mysql.TableStatistics, pt *pricingconfig.Table) (float64, error) {
	formula, ok := pt.Formulas[mysql.RangeScan]
	if !ok {
		return 0, &PricingLookupError{Kind: mysql.RangeScan, Region: pt.Region}
	}
	return ce.heuristic.RUPerSecond(tables, formula), nil
}

// StorageCharge prices the schema's storage footprint for one month.
func (ce *CostEstimator) StorageCharge(tables []mysql.TableStatistics, pt *pricingconfig.Table) (int64, decimal.Decimal) {
	totalBytes := ce.storage.TotalBytes(tables)
	return totalBytes, ce.storage.MonthlyCharge(totalBytes, pt.StoragePricePerGBMonth)
}

// RUCharge converts a monthly request-unit volume into currency.
func (ce *CostEstimator) RUCharge(monthly models.RURange, pt *pricingconfig.Table) models.Charge {
	price := func(ru float64) decimal.Decimal {
		millions := decimal.NewFromFloat(ru / 1e6)
		return millions.Mul(pt.RUPricePerMillion).Round(4)
	}
	return models.Charge{Low: price(monthly.Low), High: price(monthly.High)}
}
