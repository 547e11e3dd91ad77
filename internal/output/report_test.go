package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rucost/internal/estimate"
	"rucost/internal/pricing/models"
)

func sampleReport() *estimate.Report {
	return &estimate.Report{
		Schema: "shop",
		Flavor: "MySQL",
		Estimate: &models.CostEstimate{
			Region:           "us-east-1",
			RUPerSecond:      19.1667,
			MonthlyRU:        models.RURange{Low: 49680000, High: 49680000},
			RUCharge:         models.ExactCharge(decimal.RequireFromString("4.968")),
			StorageBytes:     12 << 30,
			StorageCharge:    decimal.RequireFromString("2.40"),
			Total:            models.ExactCharge(decimal.RequireFromString("7.368")),
			FreeCredit:       decimal.RequireFromString("6.00"),
			TotalAfterCredit: models.ExactCharge(decimal.RequireFromString("1.368")),
			Notes:            []string{"something noteworthy"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"human", FormatHuman},
		{"", FormatHuman},
		{"JSON", FormatJSON},
		{" yaml ", FormatYAML},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRenderHuman(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatHuman))

	out := buf.String()
	assert.Contains(t, out, "shop (MySQL)")
	assert.Contains(t, out, "us-east-1")
	assert.Contains(t, out, "49,680,000 RU/mo")
	assert.Contains(t, out, "$4.97")
	assert.Contains(t, out, "12.00 GiB")
	assert.Contains(t, out, "$2.40")
	assert.Contains(t, out, "-$6.00")
	assert.Contains(t, out, "$1.37")
	assert.Contains(t, out, "something noteworthy")
}

func TestRenderHumanServerless(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	report := &estimate.Report{Schema: "shop", Flavor: "TiDB Serverless", AlreadyServerless: true}
	require.NoError(t, Render(&buf, report, FormatHuman))
	assert.Contains(t, buf.String(), "already running on the serverless tier")
}

func TestRenderHumanRange(t *testing.T) {
	color.NoColor = true

	report := sampleReport()
	report.Estimate.MonthlyRU = models.RURange{Low: 24840000, High: 99360000}
	report.Estimate.RUCharge = models.Charge{
		Low:  decimal.RequireFromString("2.484"),
		High: decimal.RequireFromString("9.936"),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report, FormatHuman))
	assert.Contains(t, buf.String(), "$2.48 to $9.94")
	assert.Contains(t, buf.String(), "24,840,000 to 99,360,000 RU/mo")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "shop", decoded["schema"])

	est, ok := decoded["estimate"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "us-east-1", est["region"])
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatYAML))
	assert.Contains(t, buf.String(), "schema: shop")
	assert.Contains(t, buf.String(), "region: us-east-1")
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "0", groupDigits("0"))
	assert.Equal(t, "999", groupDigits("999"))
	assert.Equal(t, "1,000", groupDigits("1000"))
	assert.Equal(t, "49,680,000", groupDigits("49680000"))
}
