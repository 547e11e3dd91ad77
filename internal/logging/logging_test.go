package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects the default logger into a buffer for one test
func capture(t *testing.T, cfg LogConfig) *bytes.Buffer {
	t.Helper()
	color.NoColor = true

	var buf bytes.Buffer
	Configure(cfg)
	SetOutput(&buf)
	t.Cleanup(func() {
		Configure(LogConfig{Level: INFO, Format: Text})
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, LogConfig{Level: WARN, Format: Text})

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message", fmt.Errorf("cause"))

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message: cause")
}

func TestTextFormat(t *testing.T) {
	buf := capture(t, LogConfig{Level: DEBUG, Format: Text})

	Info("collecting", map[string]interface{}{"schema": "shop"})

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "collecting")
	assert.Contains(t, out, "schema:shop")
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t, LogConfig{Level: INFO, Format: JSON})

	Info("sampling", map[string]interface{}{"window": "60s"})

	var entry struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "sampling", entry.Message)
	assert.Equal(t, "60s", entry.Data["window"])
}

func TestDomainHelpers(t *testing.T) {
	buf := capture(t, LogConfig{Level: DEBUG, Format: Text})

	CollectStart("shop", 4)
	CollectComplete("shop", 12, 1024, 256)
	SampleStart("shop", 0)
	SampleComplete("shop", 150, 0)
	SampleUnavailable("shop", fmt.Errorf("performance_schema is disabled"))

	out := buf.String()
	assert.Contains(t, out, "Collecting table statistics")
	assert.Contains(t, out, "Table statistics collected")
	assert.Contains(t, out, "Sampling live workload")
	assert.Contains(t, out, "Workload sample collected")
	assert.Contains(t, out, "Workload sampling unavailable")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "INFO", INFO.String())
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "ERROR", ERROR.String())
}
