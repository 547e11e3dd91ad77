package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	restore := func(version, commit, buildTime, goVersion string) {
		Version, GitCommit, BuildTime, GoVersion = version, commit, buildTime, goVersion
	}
	t.Cleanup(func() { restore(Version, "", "", "") })

	t.Run("bare version without build metadata", func(t *testing.T) {
		restore("0.2.0", "", "", "")
		assert.Equal(t, "0.2.0", String())
	})

	t.Run("long commit is truncated", func(t *testing.T) {
		restore("0.2.0", "0123456789abcdef", "2026-08-29", "go1.24")
		assert.Equal(t, "0.2.0 (commit: 01234567, built: 2026-08-29, go1.24)", String())
	})

	t.Run("short commit is kept whole", func(t *testing.T) {
		restore("0.2.0", "abc", "2026-08-29", "go1.24")
		assert.Equal(t, "0.2.0 (commit: abc, built: 2026-08-29, go1.24)", String())
	})
}

func TestShortString(t *testing.T) {
	assert.Equal(t, Version, ShortString())
}
