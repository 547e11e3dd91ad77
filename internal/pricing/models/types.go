package models

import "github.com/shopspring/decimal"

// RUFormula holds the parameters of one operation kind's request-unit cost
// function: a base charge per operation plus a marginal charge per row or
// byte beyond a free threshold. Small point operations stay cheaper per unit
// than large scans because their marginal terms never engage.
type RUFormula struct {
	// BaseRU is charged once per operation
	BaseRU float64

	// PerRowRU is charged per row beyond FreeRows rows per operation
	PerRowRU float64
	FreeRows int64

	// PerByteRU is charged per byte beyond FreeBytes bytes per operation
	PerByteRU float64
	FreeBytes int64
}

// Charge is a monthly currency amount, widened into a low/high range when
// the sampling window was too short to be representative.
type Charge struct {
	Low  decimal.Decimal `json:"low" yaml:"low"`
	High decimal.Decimal `json:"high" yaml:"high"`
}

// ExactCharge returns a Charge with no uncertainty spread.
func ExactCharge(d decimal.Decimal) Charge {
	return Charge{Low: d, High: d}
}

// Exact reports whether the charge carries no uncertainty spread.
func (c Charge) Exact() bool {
	return c.Low.Equal(c.High)
}

// Add returns the charge shifted by a fixed amount on both bounds.
func (c Charge) Add(d decimal.Decimal) Charge {
	return Charge{Low: c.Low.Add(d), High: c.High.Add(d)}
}

// Sub returns the charge reduced by a fixed amount, clamped at zero.
func (c Charge) Sub(d decimal.Decimal) Charge {
	out := Charge{Low: c.Low.Sub(d), High: c.High.Sub(d)}
	zero := decimal.Zero
	if out.Low.IsNegative() {
		out.Low = zero
	}
	if out.High.IsNegative() {
		out.High = zero
	}
	return out
}

// RURange is a monthly request-unit volume, possibly widened
type RURange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// CostEstimate is the terminal artifact of the estimation pipeline.
// Total always equals RUCharge plus StorageCharge; the free credit is
// applied only to TotalAfterCredit.
type CostEstimate struct {
	Region string `json:"region" yaml:"region"`

	// RUPerSecond is the observed or heuristic request-unit consumption rate
	RUPerSecond float64 `json:"ru_per_second" yaml:"ru_per_second"`

	// MonthlyRU is the extrapolated monthly request-unit volume
	MonthlyRU RURange `json:"monthly_ru" yaml:"monthly_ru"`

	RUCharge      Charge          `json:"ru_charge" yaml:"ru_charge"`
	StorageBytes  int64           `json:"storage_bytes" yaml:"storage_bytes"`
	StorageCharge decimal.Decimal `json:"storage_charge" yaml:"storage_charge"`

	Total            Charge          `json:"total" yaml:"total"`
	FreeCredit       decimal.Decimal `json:"free_credit" yaml:"free_credit"`
	TotalAfterCredit Charge          `json:"total_after_credit" yaml:"total_after_credit"`

	// Notes carries every warning accumulated upstream, in pipeline order
	Notes []string `json:"notes" yaml:"notes"`
}
