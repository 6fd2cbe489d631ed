package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runnerr0/snapsync/internal/config"
	"github.com/runnerr0/snapsync/internal/gate"
	"github.com/runnerr0/snapsync/internal/history"
	"github.com/runnerr0/snapsync/internal/merge"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version     string            `json:"version"`
	LastSuccess string            `json:"last_success,omitempty"`
	Stores      []storeStatusJSON `json:"stores"`
	RecentRuns  []runJSON         `json:"recent_runs"`
}

type storeStatusJSON struct {
	Domain  string `json:"domain"`
	Path    string `json:"path"`
	Records int    `json:"records"`
}

type runJSON struct {
	Domain     string `json:"domain"`
	Day        string `json:"day"`
	Status     string `json:"status"`
	Added      int    `json:"added"`
	Total      int    `json:"total"`
	Rejected   int    `json:"rejected"`
	RecordedAt string `json:"recorded_at"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	hist, db, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer hist.Close()

	markerPath, err := cfg.MarkerPath()
	if err != nil {
		return err
	}

	return c.run(cfg, hist, &gate.FileState{Path: markerPath}, os.Stdout)
}

// run gathers store and history totals and renders them (used by tests).
func (c *StatusCommand) run(cfg *config.Config, hist history.Store, state gate.StateStore, out io.Writer) error {
	ctx := context.Background()

	var stores []storeStatusJSON
	for _, domain := range merge.Domains() {
		path, err := cfg.StorePath(domain)
		if err != nil {
			return err
		}
		n, err := merge.CountRecords(path)
		if err != nil {
			return fmt.Errorf("count %s store: %w", domain, err)
		}
		stores = append(stores, storeStatusJSON{Domain: string(domain), Path: path, Records: n})
	}

	runs, err := hist.RecentRuns(ctx, c.Limit)
	if err != nil {
		return fmt.Errorf("recent runs: %w", err)
	}

	lastSuccess, ok, err := state.Read()
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(stores, runs, lastSuccess, ok, out)
	}
	return c.printHuman(stores, runs, lastSuccess, ok, out)
}

func (c *StatusCommand) printHuman(stores []storeStatusJSON, runs []history.Run, lastSuccess time.Time, marked bool, out io.Writer) error {
	fmt.Fprintln(out, "Snapsync Status")
	fmt.Fprintln(out, "===============")
	fmt.Fprintf(out, "Version:       %s\n", c.version)
	if marked {
		fmt.Fprintf(out, "Last success:  %s\n", lastSuccess.Format(dayLayout))
	} else {
		fmt.Fprintln(out, "Last success:  never")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Stores:")
	for _, s := range stores {
		fmt.Fprintf(out, "  %-10s %8d records  %s\n", s.Domain, s.Records, s.Path)
	}

	if len(runs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recent runs:")
		for _, r := range runs {
			switch r.Status {
			case history.StatusOK:
				fmt.Fprintf(out, "  %s  %-5s %-10s added=%d total=%d\n",
					r.RecordedAt.UTC().Format(time.RFC3339), "OK", r.Domain, r.Added, r.Total)
			default:
				fmt.Fprintf(out, "  %s  %-5s %-10s\n",
					r.RecordedAt.UTC().Format(time.RFC3339), "ERROR", r.Domain)
			}
		}
	}

	return nil
}

func (c *StatusCommand) printJSON(stores []storeStatusJSON, runs []history.Run, lastSuccess time.Time, marked bool, out io.Writer) error {
	st := statusJSON{
		Version:    c.version,
		Stores:     stores,
		RecentRuns: make([]runJSON, len(runs)),
	}
	if marked {
		st.LastSuccess = lastSuccess.Format(dayLayout)
	}
	for i, r := range runs {
		st.RecentRuns[i] = runJSON{
			Domain:     r.Domain,
			Day:        r.Day.Format(dayLayout),
			Status:     r.Status,
			Added:      r.Added,
			Total:      r.Total,
			Rejected:   r.Rejected,
			RecordedAt: r.RecordedAt.UTC().Format(time.RFC3339),
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
