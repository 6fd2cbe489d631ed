package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tmpPattern names in-flight merge temporaries. They live next to the store
// so the final rename never crosses a filesystem boundary.
const tmpPattern = ".tmp-merge-*"

// atomicReplace writes a complete new version of finalPath: the write
// callback streams the full content into a temp file in the same directory,
// which is flushed, synced, and published with a single rename. On any
// failure before the rename the temp file is removed and finalPath is left
// exactly as it was, so a concurrent reader observes either the old content
// or the new content, never a mix.
func atomicReplace(finalPath string, write func(w io.Writer) error) error {
	dir := filepath.Dir(finalPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	discard := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		discard()
		return err
	}
	if err := bw.Flush(); err != nil {
		discard()
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		discard()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish store: %w", err)
	}
	return nil
}
