package merge

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicReplaceWritesNewFile(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "nested", "store.json")

	err := atomicReplace(final, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestAtomicReplaceOverwritesWhole(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(final, []byte("old content that is longer\n"), 0644))

	err := atomicReplace(final, func(w io.Writer) error {
		_, err := io.WriteString(w, "new\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestAtomicReplaceWriteErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(final, []byte("original\n"), 0644))

	boom := errors.New("disk full")
	err := atomicReplace(final, func(w io.Writer) error {
		// Everything is written before the failure: the temp file is
		// complete, but it must never be published.
		if _, err := io.WriteString(w, "partial new content\n"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".tmp-merge-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file must be discarded on failure")
}

func TestAtomicReplaceRenameFailureKeepsTargetClean(t *testing.T) {
	dir := t.TempDir()
	// A directory at the final path makes the rename itself fail.
	final := filepath.Join(dir, "store.json")
	require.NoError(t, os.MkdirAll(filepath.Join(final, "blocker"), 0755))

	err := atomicReplace(final, func(w io.Writer) error {
		_, err := io.WriteString(w, "content\n")
		return err
	})
	require.Error(t, err)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".tmp-merge-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
