package pricing

import (
	"fmt"
	"time"

	"rucost/internal/pricing/models"
)

// SecondsPerMonth is the extrapolation horizon: a 30-day billing month.
const SecondsPerMonth = 30 * 24 * 60 * 60

// defaultWidenFactor is the spread applied to both bounds when the sampling
// window was too short to be representative.
const defaultWidenFactor = 2.0

// Extrapolator scales an observed per-second request-unit rate to a monthly
// volume, widening the result into a range when the sampling window fell
// below the confidence threshold. Deterministic for identical inputs.
type Extrapolator struct {
	MinWindow   time.Duration
	WidenFactor float64
}

// NewExtrapolator creates an Extrapolator with the given confidence
// threshold and the default widening factor.
func NewExtrapolator(minWindow time.Duration) *Extrapolator {
	return &Extrapolator{MinWindow: minWindow, WidenFactor: defaultWidenFactor}
}

// Extrapolation is the monthly request-unit projection, plus the confidence
// note when the estimate had to be widened.
type Extrapolation struct {
	MonthlyRU models.RURange
	Note      string
}

// Extrapolate projects ruPerSecond over a month. A window at or above
// MinWindow yields a point estimate; a shorter window yields a low/high
// range and a note explaining the reduced confidence.
func (e *Extrapolator) Extrapolate(ruPerSecond float64, window time.Duration) Extrapolation {
	monthly := ruPerSecond * SecondsPerMonth
	if window >= e.MinWindow {
		return Extrapolation{MonthlyRU: models.RURange{Low: monthly, High: monthly}}
	}
	return Extrapolation{
		MonthlyRU: models.RURange{
			Low:  monthly / e.WidenFactor,
			High: monthly * e.WidenFactor,
		},
		Note: fmt.Sprintf(
			"The %s sampling window is shorter than the %s confidence threshold; the request-unit estimate is reported as a range.",
			window, e.MinWindow),
	}
}
