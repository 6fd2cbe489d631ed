package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/snapsync/internal/merge"
)

// Execute implements the go-flags Commander interface for MergeCommand.
func (c *MergeCommand) Execute(args []string) error {
	domain, err := merge.ParseDomain(c.Domain)
	if err != nil {
		return err
	}

	storePath := c.Store
	if storePath == "" {
		cfg, err := loadConfig(c.globals)
		if err != nil {
			return err
		}
		storePath, err = cfg.StorePath(domain)
		if err != nil {
			return err
		}
	}

	return c.run(domain, c.Export, storePath, os.Stdout, os.Stderr)
}

// run performs the merge and emits the single summary line. On failure
// nothing is emitted; the caller's non-zero exit is the failure signal.
func (c *MergeCommand) run(domain merge.Domain, exportPath, storePath string, out, errOut io.Writer) error {
	outcome, err := merge.Merge(domain, exportPath, storePath)
	if err != nil {
		return fmt.Errorf("merge %s: %w", domain, err)
	}

	if outcome.NoValidRecords {
		fmt.Fprintf(errOut, "warning: %s export contained no valid records (likely a bad download)\n", domain)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	fmt.Fprintln(out, outcome.Summary())
	return nil
}
