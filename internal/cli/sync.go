package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runnerr0/snapsync/internal/audit"
	"github.com/runnerr0/snapsync/internal/config"
	"github.com/runnerr0/snapsync/internal/fetch"
	"github.com/runnerr0/snapsync/internal/gate"
	"github.com/runnerr0/snapsync/internal/history"
	"github.com/runnerr0/snapsync/internal/merge"
)

// exportFetcher produces a local decompressed export file for a domain and
// day. Satisfied by *fetch.Client; tests substitute a local stub.
type exportFetcher interface {
	Fetch(ctx context.Context, domain merge.Domain, day time.Time) (string, error)
}

// merger folds an export into a store. Indirection lets tests inject
// failures without touching real files.
type merger func(domain merge.Domain, exportPath, storePath string) (merge.Outcome, error)

// syncDeps bundles the pipeline collaborators so tests can substitute any
// of them.
type syncDeps struct {
	cfg     *config.Config
	fetcher exportFetcher
	merge   merger
	gate    *gate.Gate
	audit   *audit.Logger
	history history.Store
	out     io.Writer
	errOut  io.Writer
}

// Execute implements the go-flags Commander interface for SyncCommand.
func (c *SyncCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	workDir, err := cfg.WorkDir()
	if err != nil {
		return err
	}
	client := fetch.NewClient(cfg.Fetch.BaseURL, workDir)
	client.Retries = cfg.Fetch.RetryCount
	client.RetryDelay = time.Duration(cfg.Fetch.RetryDelaySeconds) * time.Second
	client.HTTPClient.Timeout = time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second

	markerPath, err := cfg.MarkerPath()
	if err != nil {
		return err
	}
	auditPath, err := cfg.AuditPath()
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

	deps := &syncDeps{
		cfg:     cfg,
		fetcher: client,
		merge:   merge.Merge,
		gate:    gate.New(&gate.FileState{Path: markerPath}),
		audit:   audit.NewLogger(auditPath),
		history: hist,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	return c.run(context.Background(), deps)
}

// run executes the pipeline: gate check, then fetch+merge per domain, then
// marker advance if anything succeeded. A failing domain does not stop the
// others; the run fails only when every domain failed.
func (c *SyncCommand) run(ctx context.Context, deps *syncDeps) error {
	day, err := parseDay(c.Date)
	if err != nil {
		return err
	}

	if !c.Force {
		done, err := deps.gate.DoneFor(day)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintf(deps.out, "sync already completed for %s, skipping\n", day.Format(dayLayout))
			return nil
		}
	}

	domains, err := c.domains(deps.cfg)
	if err != nil {
		return err
	}

	succeeded := 0
	for _, domain := range domains {
		if err := c.runDomain(ctx, deps, domain, day); err != nil {
			fmt.Fprintf(deps.errOut, "%s: %v\n", domain, err)
			if aerr := deps.audit.Error(string(domain), day); aerr != nil {
				fmt.Fprintf(deps.errOut, "audit: %v\n", aerr)
			}
			c.record(ctx, deps, &history.Run{
				Domain: string(domain),
				Day:    day,
				Status: history.StatusError,
			})
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		return fmt.Errorf("all %d domain syncs failed for %s", len(domains), day.Format(dayLayout))
	}

	// The marker only advances once at least one domain merged for the day.
	return deps.gate.MarkDone(day)
}

// runDomain fetches and merges a single domain, then records the outcome.
func (c *SyncCommand) runDomain(ctx context.Context, deps *syncDeps, domain merge.Domain, day time.Time) error {
	exportPath, err := deps.fetcher.Fetch(ctx, domain, day)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	// The daily export is consumed exactly once; never left behind.
	defer os.Remove(exportPath)

	if c.globals != nil && c.globals.Verbose {
		fmt.Fprintf(deps.errOut, "fetched %s export for %s -> %s\n", domain, day.Format(dayLayout), exportPath)
	}

	storePath, err := deps.cfg.StorePath(domain)
	if err != nil {
		return err
	}

	outcome, err := deps.merge(domain, exportPath, storePath)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	if outcome.NoValidRecords {
		fmt.Fprintf(deps.errOut, "warning: %s export contained no valid records (likely a bad download)\n", domain)
	}

	if err := deps.audit.OK(string(domain), day, outcome.Added, outcome.Total); err != nil {
		fmt.Fprintf(deps.errOut, "audit: %v\n", err)
	}
	c.record(ctx, deps, &history.Run{
		Domain:   string(domain),
		Day:      day,
		Status:   history.StatusOK,
		Added:    outcome.Added,
		Total:    outcome.Total,
		Rejected: outcome.Rejected,
	})

	fmt.Fprintln(deps.out, outcome.Summary())
	return nil
}

// record stores a run row; history failures are reported but never fail
// the pipeline.
func (c *SyncCommand) record(ctx context.Context, deps *syncDeps, run *history.Run) {
	if deps.history == nil {
		return
	}
	if err := deps.history.RecordRun(ctx, run); err != nil {
		fmt.Fprintf(deps.errOut, "history: %v\n", err)
	}
}

// domains resolves the --domain flags against the configured domain list.
func (c *SyncCommand) domains(cfg *config.Config) ([]merge.Domain, error) {
	if len(c.Domains) == 0 {
		return cfg.SyncDomains()
	}
	out := make([]merge.Domain, 0, len(c.Domains))
	for _, s := range c.Domains {
		d, err := merge.ParseDomain(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, errors.New("no domains selected")
	}
	return out, nil
}
