package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 9, 4, 30, 0, time.UTC)
}

func TestLoggerOKLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "update.log")
	l := NewLogger(path)
	l.Now = fixedNow

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.OK("movies", day, 42, 98765))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31T09:04:30Z | OK movies 2026-08-31 added=42 total=98765\n", string(data))
}

func TestLoggerErrorLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.log")
	l := NewLogger(path)
	l.Now = fixedNow

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.Error("keywords", day))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31T09:04:30Z | ERROR keywords 2026-08-31\n", string(data))
}

func TestLoggerAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.log")
	l := NewLogger(path)
	l.Now = fixedNow

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.OK("movies", day, 1, 10))
	require.NoError(t, l.OK("tv", day, 2, 20))
	require.NoError(t, l.Error("people", day))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := string(data)
	assert.Contains(t, lines, "OK movies")
	assert.Contains(t, lines, "OK tv")
	assert.Contains(t, lines, "ERROR people")
	assert.Len(t, strings.Split(strings.TrimRight(lines, "\n"), "\n"), 3)
}
