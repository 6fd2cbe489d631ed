package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/snapsync/internal/merge"
)

func writeExport(t *testing.T, dir string, lines string) string {
	t.Helper()
	path := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestMergeCommandSummaryLine(t *testing.T) {
	dir := t.TempDir()
	exp := writeExport(t, dir, `{"id":1,"original_title":"Alpha"}`+"\n"+`{"id":2,"original_title":"Beta"}`+"\n")
	store := filepath.Join(dir, "movie_dumps.json")

	cmd := &MergeCommand{globals: &GlobalFlags{}}
	var out, errOut bytes.Buffer
	err := cmd.run(merge.Movies, exp, store, &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "movies: added=2 total=2 -> "+store+"\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestMergeCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	exp := writeExport(t, dir, `{"id":1}`+"\n")
	store := filepath.Join(dir, "keyword_dumps.json")

	cmd := &MergeCommand{globals: &GlobalFlags{JSON: true}}
	var out, errOut bytes.Buffer
	require.NoError(t, cmd.run(merge.Keywords, exp, store, &out, &errOut))

	var outcome merge.Outcome
	require.NoError(t, json.Unmarshal(out.Bytes(), &outcome))
	assert.Equal(t, merge.Keywords, outcome.Domain)
	assert.Equal(t, 1, outcome.Added)
	assert.Equal(t, 1, outcome.Total)
}

func TestMergeCommandNoSummaryOnFailure(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store.json")

	cmd := &MergeCommand{globals: &GlobalFlags{}}
	var out, errOut bytes.Buffer
	err := cmd.run(merge.Movies, filepath.Join(dir, "missing.json"), store, &out, &errOut)
	require.Error(t, err)
	assert.Empty(t, out.String(), "failed run must emit no summary")
}

func TestMergeCommandWarnsOnCorruptExport(t *testing.T) {
	dir := t.TempDir()
	exp := writeExport(t, dir, "garbage\nmore garbage\n")
	store := filepath.Join(dir, "store.json")

	cmd := &MergeCommand{globals: &GlobalFlags{}}
	var out, errOut bytes.Buffer
	require.NoError(t, cmd.run(merge.Movies, exp, store, &out, &errOut))

	assert.Contains(t, out.String(), "added=0 total=0")
	assert.Contains(t, errOut.String(), "no valid records")
}

func TestMergeCommandExecuteRejectsUnknownDomain(t *testing.T) {
	cmd := &MergeCommand{Domain: "books", Export: "/nonexistent", globals: &GlobalFlags{}}
	err := cmd.Execute(nil)
	assert.ErrorIs(t, err, merge.ErrUnknownDomain)
}
