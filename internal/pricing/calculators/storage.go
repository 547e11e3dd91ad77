package calculators

import (
	"github.com/shopspring/decimal"

	"rucost/internal/mysql"
)

// bytesPerGB converts engine byte counts to billing gigabytes
const bytesPerGB = 1 << 30

// StorageCalculator prices the row-based storage footprint. Pure and total:
// an empty schema yields a zero charge, never an error.
type StorageCalculator struct {
	BaseCalculator
}

// TotalBytes sums data and index bytes across all tables. Index bytes are
// tracked separately upstream because index writes are priced differently,
// but storage is billed on the combined footprint.
func (sc *StorageCalculator) TotalBytes(tables []mysql.TableStatistics) int64 {
	var total int64
	for _, t := range tables {
		total += t.DataBytes + t.IndexBytes
	}
	return total
}

// MonthlyCharge converts a byte footprint into a monthly storage charge.
// Monotonically non-decreasing in totalBytes for any non-negative price.
func (sc *StorageCalculator) MonthlyCharge(totalBytes int64, pricePerGBMonth decimal.Decimal) decimal.Decimal {
	gb := decimal.NewFromInt(totalBytes).Div(decimal.NewFromInt(bytesPerGB))
	return gb.Mul(pricePerGBMonth).Round(4)
}
