package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/snapsync/internal/config"
	"github.com/runnerr0/snapsync/internal/gate"
	"github.com/runnerr0/snapsync/internal/history"
)

func statusFixture(t *testing.T) (*config.Config, *history.SQLiteStore, *gate.MemState) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = filepath.Join(dir, "out")

	hist, db, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		hist.Close()
		db.Close()
	})

	return cfg, hist, &gate.MemState{}
}

func TestStatusEmptyState(t *testing.T) {
	cfg, hist, state := statusFixture(t)

	cmd := &StatusCommand{Limit: 10, version: "test", globals: &GlobalFlags{}}
	var out bytes.Buffer
	require.NoError(t, cmd.run(cfg, hist, state, &out))

	s := out.String()
	assert.Contains(t, s, "Last success:  never")
	assert.Contains(t, s, "movies")
	assert.Contains(t, s, "companies")
}

func TestStatusShowsStoreCountsAndRuns(t *testing.T) {
	cfg, hist, state := statusFixture(t)

	storePath, err := cfg.StorePath("movies")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(storePath), 0755))
	require.NoError(t, os.WriteFile(storePath, []byte(`{"id":1}`+"\n"+`{"id":2}`+"\n"), 0644))

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, hist.RecordRun(context.Background(), &history.Run{
		Domain: "movies", Day: day, Status: history.StatusOK, Added: 2, Total: 2,
	}))
	require.NoError(t, state.Write(day))

	cmd := &StatusCommand{Limit: 10, version: "test", globals: &GlobalFlags{}}
	var out bytes.Buffer
	require.NoError(t, cmd.run(cfg, hist, state, &out))

	s := out.String()
	assert.Contains(t, s, "Last success:  2026-08-31")
	assert.Contains(t, s, "2 records")
	assert.Contains(t, s, "OK")
	assert.Contains(t, s, "added=2 total=2")
}

func TestStatusJSON(t *testing.T) {
	cfg, hist, state := statusFixture(t)

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, hist.RecordRun(context.Background(), &history.Run{
		Domain: "keywords", Day: day, Status: history.StatusError,
	}))

	cmd := &StatusCommand{Limit: 5, version: "test", globals: &GlobalFlags{JSON: true}}
	var out bytes.Buffer
	require.NoError(t, cmd.run(cfg, hist, state, &out))

	var got statusJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "test", got.Version)
	assert.Empty(t, got.LastSuccess)
	assert.Len(t, got.Stores, 6)
	require.Len(t, got.RecentRuns, 1)
	assert.Equal(t, "keywords", got.RecentRuns[0].Domain)
	assert.Equal(t, "error", got.RecentRuns[0].Status)
}
