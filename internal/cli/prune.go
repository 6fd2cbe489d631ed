package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/runnerr0/snapsync/internal/config"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	return c.run(cfg, os.Stdout)
}

// run removes orphaned merge temporaries from the data directory and any
// leftover files from the work directory. Both are safe to delete at any
// time: temporaries are only meaningful inside an in-flight commit, and
// downloaded exports are re-fetched on demand.
func (c *PruneCommand) run(cfg *config.Config, out io.Writer) error {
	dataDir, err := config.ExpandPath(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	workDir, err := cfg.WorkDir()
	if err != nil {
		return err
	}

	var victims []string

	tmps, err := filepath.Glob(filepath.Join(dataDir, ".tmp-merge-*"))
	if err != nil {
		return err
	}
	victims = append(victims, tmps...)

	entries, err := os.ReadDir(workDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read work directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".tmp-fetch-") || strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz") {
			victims = append(victims, filepath.Join(workDir, name))
		}
	}

	if len(victims) == 0 {
		fmt.Fprintln(out, "nothing to prune")
		return nil
	}

	for _, path := range victims {
		if c.DryRun {
			fmt.Fprintf(out, "would remove %s\n", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		fmt.Fprintf(out, "removed %s\n", path)
	}
	return nil
}
