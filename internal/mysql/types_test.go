package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOperationKindString(t *testing.T) {
	assert.Equal(t, "point_read", PointRead.String())
	assert.Equal(t, "range_scan", RangeScan.String())
	assert.Equal(t, "index_write", IndexWrite.String())
	assert.Equal(t, "row_write", RowWrite.String())
	assert.Equal(t, "delete", Delete.String())
	assert.Equal(t, "unknown", OperationKind(99).String())
}

func TestKindsAreStable(t *testing.T) {
	assert.Equal(t, []OperationKind{PointRead, RangeScan, IndexWrite, RowWrite, Delete}, Kinds)
}

func TestSecondaryIndexes(t *testing.T) {
	table := TableStatistics{
		Name: "orders",
		Indexes: []IndexStatistics{
			{Name: "PRIMARY", Columns: []string{"id"}, Unique: true},
			{Name: "idx_user", Columns: []string{"user_id"}},
			{Name: "idx_created", Columns: []string{"created_at"}},
		},
	}
	assert.Equal(t, int64(2), table.SecondaryIndexes())
	assert.Equal(t, int64(0), TableStatistics{Name: "bare"}.SecondaryIndexes())
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	summary := Summarize(time.Minute, []OperationSample{
		{Kind: PointRead, Count: 100, Rows: 100, Bytes: 6400, Bucket: now},
		{Kind: PointRead, Count: 50, Rows: 50, Bytes: 3200, Bucket: now},
		{Kind: RowWrite, Count: 10, Rows: 10, Bytes: 2000, Bucket: now},
	})

	assert.Equal(t, time.Minute, summary.Window)
	assert.Equal(t, OperationTotals{Operations: 150, Rows: 150, Bytes: 9600}, summary.Totals[PointRead])
	assert.Equal(t, OperationTotals{Operations: 10, Rows: 10, Bytes: 2000}, summary.Totals[RowWrite])
	assert.Equal(t, int64(160), summary.TotalOperations())

	_, ok := summary.Totals[Delete]
	assert.False(t, ok, "kinds with no samples must not appear in the totals")
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(time.Minute, nil)
	assert.Empty(t, summary.Totals)
	assert.Equal(t, int64(0), summary.TotalOperations())
}
