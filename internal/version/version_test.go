package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestStampedRelease(t *testing.T) {
	stamp(t, "v1.2.0", "abc1234def5678", "2026-03-01T10:00:00Z")

	info := Get()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "abc1234def5678", info.GitCommit)
	assert.Equal(t, 2026, info.BuildTime.Year())
	assert.True(t, IsRelease())

	assert.Equal(t, "v1.2.0 (abc1234)", Short())

	detailed := Detailed()
	assert.True(t, strings.HasPrefix(detailed, "Version: v1.2.0\n"))
	assert.Contains(t, detailed, "Commit: abc1234def5678")
	assert.Contains(t, detailed, "Built: 2026-03-01T10:00:00Z")
	assert.Contains(t, detailed, "Platform: ")
}

func TestDevCommitShort(t *testing.T) {
	stamp(t, "dev", "abc1234def5678", "unknown")
	if Get().Version != "dev" {
		t.Skip("module build info carries a version")
	}
	assert.Equal(t, "dev-abc1234", Short())
	assert.False(t, IsRelease())
}

func TestParseBuildTime(t *testing.T) {
	tests := map[string]bool{
		"2026-03-01T10:00:00Z":      true,
		"2026-03-01T10:00:00+02:00": true,
		"2026-03-01T10:00:00":       true,
		"2026-03-01 10:00:00":       true,
		"unknown":                   false,
		"":                          false,
		"yesterday":                 false,
	}
	for in, ok := range tests {
		got := parseBuildTime(in)
		assert.Equal(t, ok, !got.IsZero(), in)
		if ok {
			assert.Equal(t, time.March, got.Month(), in)
		}
	}
}
