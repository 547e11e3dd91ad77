package config

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"rucost/internal/mysql"
	"rucost/internal/pricing/models"
)

// Table is the pricing schedule for one serverless region. Loaded once at
// startup and read-only for the lifetime of a run.
type Table struct {
	Region                 string
	RUPricePerMillion      decimal.Decimal
	StoragePricePerGBMonth decimal.Decimal
	FreeCredit             decimal.Decimal
	Formulas               map[mysql.OperationKind]models.RUFormula
}

// InvalidRegion reports a requested region absent from the pricing registry.
// Surfaced before any collection work begins.
type InvalidRegion struct {
	Region string
}

func (e *InvalidRegion) Error() string {
	return fmt.Sprintf("region %q is not a supported serverless region (run `rucost regions` for the list)", e.Region)
}

const (
	kilobyte = 1024
	// readUnitBytes is the byte volume covered by one read request unit
	readUnitBytes = 64 * kilobyte
)

// defaultFormulas is the documented request-unit schedule. All regions share
// the same shape; only unit prices differ by region.
var defaultFormulas = map[mysql.OperationKind]models.RUFormula{
	mysql.PointRead: {
		BaseRU:    1,
		PerByteRU: 1.0 / readUnitBytes,
		FreeBytes: readUnitBytes,
	},
	mysql.RangeScan: {
		BaseRU:    1,
		PerRowRU:  1.0 / 8,
		PerByteRU: 1.0 / readUnitBytes,
	},
	mysql.RowWrite: {
		BaseRU:    3,
		PerByteRU: 3.0 / kilobyte,
		FreeBytes: kilobyte,
	},
	mysql.IndexWrite: {
		BaseRU: 3,
	},
	// Deletes are weighted like writes
	mysql.Delete: {
		BaseRU:    3,
		PerByteRU: 3.0 / kilobyte,
		FreeBytes: kilobyte,
	},
}

func table(region string, storagePrice, ruPrice, freeCredit string) *Table {
	return &Table{
		Region:                 region,
		RUPricePerMillion:      decimal.RequireFromString(ruPrice),
		StoragePricePerGBMonth: decimal.RequireFromString(storagePrice),
		FreeCredit:             decimal.RequireFromString(freeCredit),
		Formulas:               defaultFormulas,
	}
}

// registry maps region identifiers to their pricing tables
var registry = map[string]*Table{
	"us-east-1":      table("us-east-1", "0.20", "0.10", "6.00"),
	"us-west-2":      table("us-west-2", "0.20", "0.10", "6.00"),
	"eu-central-1":   table("eu-central-1", "0.24", "0.12", "7.20"),
	"ap-southeast-1": table("ap-southeast-1", "0.24", "0.12", "7.20"),
	"ap-northeast-1": table("ap-northeast-1", "0.24", "0.12", "7.20"),
}

// Lookup resolves a region to its pricing table.
func Lookup(region string) (*Table, error) {
	t, ok := registry[region]
	if !ok {
		return nil, &InvalidRegion{Region: region}
	}
	return t, nil
}

// Regions returns every supported pricing table sorted by region id.
func Regions() []*Table {
	out := make([]*Table, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}
