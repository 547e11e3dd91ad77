package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rucost/internal/mysql"
	pricingconfig "rucost/internal/pricing/config"
	"rucost/internal/pricing/models"
)

func usEast(t *testing.T) *pricingconfig.Table {
	t.Helper()
	pt, err := pricingconfig.Lookup("us-east-1")
	require.NoError(t, err)
	return pt
}

func TestRateFromSummary(t *testing.T) {
	est := NewCostEstimator()
	pt := usEast(t)

	t.Run("point reads and row writes over a minute", func(t *testing.T) {
		summary := mysql.Summarize(time.Minute, []mysql.OperationSample{
			{Kind: mysql.PointRead, Count: 1000, Rows: 1000, Bytes: 1000 * 100},
			{Kind: mysql.RowWrite, Count: 50, Rows: 50, Bytes: 50 * 200},
		})

		rate, err := est.RateFromSummary(summary, pt)
		require.NoError(t, err)
		// 1000 reads at 1 RU plus 50 writes at 3 RU, over 60 seconds
		assert.InDelta(t, 1150.0/60, rate, 1e-9)
	})

	t.Run("identical inputs produce identical rates", func(t *testing.T) {
		summary := mysql.Summarize(90*time.Second, []mysql.OperationSample{
			{Kind: mysql.RangeScan, Count: 17, Rows: 42137, Bytes: 3 << 20},
			{Kind: mysql.Delete, Count: 3, Rows: 9, Bytes: 9 * 512},
		})
		first, err := est.RateFromSummary(summary, pt)
		require.NoError(t, err)
		second, err := est.RateFromSummary(summary, pt)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("kinds without activity are skipped", func(t *testing.T) {
		summary := mysql.Summarize(time.Minute, nil)
		rate, err := est.RateFromSummary(summary, pt)
		require.NoError(t, err)
		assert.Equal(t, 0.0, rate)
	})

	t.Run("missing formula aborts instead of underpricing", func(t *testing.T) {
		broken := &pricingconfig.Table{
			Region:            pt.Region,
			RUPricePerMillion: pt.RUPricePerMillion,
			Formulas: map[mysql.OperationKind]models.RUFormula{
				mysql.PointRead: pt.Formulas[mysql.PointRead],
			},
		}
		summary := mysql.Summarize(time.Minute, []mysql.OperationSample{
			{Kind: mysql.RowWrite, Count: 1, Rows: 1, Bytes: 100},
		})

		_, err := est.RateFromSummary(summary, broken)
		require.Error(t, err)
		var lookupErr *PricingLookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, mysql.RowWrite, lookupErr.Kind)
	})
}

func TestRateFromStatistics(t *testing.T) {
	est := NewCostEstimator()
	pt := usEast(t)

	t.Run("empty schema yields zero", func(t *testing.T) {
		rate, err := est.RateFromStatistics(nil, pt)
		require.NoError(t, err)
		assert.Equal(t, 0.0, rate)
	})

	t.Run("non-empty schema yields a positive rate", func(t *testing.T) {
		tables := []mysql.TableStatistics{
			{Name: "orders", Rows: 500000, DataBytes: 2 << 30, IndexBytes: 1 << 28},
		}
		rate, err := est.RateFromStatistics(tables, pt)
		require.NoError(t, err)
		assert.Greater(t, rate, 0.0)
	})
}

func TestStorageCharge(t *testing.T) {
	est := NewCostEstimator()
	pt := usEast(t)

	tables := []mysql.TableStatistics{
		{Name: "orders", DataBytes: 11 << 30, IndexBytes: 1 << 30},
	}
	bytes, charge := est.StorageCharge(tables, pt)
	assert.Equal(t, int64(12<<30), bytes)
	assert.True(t, charge.Equal(decimal.RequireFromString("2.40")), "got %s", charge)
}

func TestRUCharge(t *testing.T) {
	est := NewCostEstimator()
	pt := usEast(t)

	t.Run("point estimate prices both bounds identically", func(t *testing.T) {
		charge := est.RUCharge(models.RURange{Low: 49680000, High: 49680000}, pt)
		assert.True(t, charge.Exact())
		assert.True(t, charge.Low.Equal(decimal.RequireFromString("4.968")), "got %s", charge.Low)
	})

	t.Run("widened estimate keeps the spread", func(t *testing.T) {
		charge := est.RUCharge(models.RURange{Low: 10000000, High: 40000000}, pt)
		assert.False(t, charge.Exact())
		assert.True(t, charge.Low.Equal(decimal.RequireFromString("1")))
		assert.True(t, charge.High.Equal(decimal.RequireFromString("4")))
	})

	t.Run("zero volume is free", func(t *testing.T) {
		charge := est.RUCharge(models.RURange{}, pt)
		assert.True(t, charge.Low.IsZero())
		assert.True(t, charge.High.IsZero())
	})
}
