package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/snapsync/internal/fetch"
	"github.com/runnerr0/snapsync/internal/merge"
)

// Execute implements the go-flags Commander interface for FetchCommand.
func (c *FetchCommand) Execute(args []string) error {
	domain, err := merge.ParseDomain(c.Domain)
	if err != nil {
		return err
	}
	day, err := parseDay(c.Date)
	if err != nil {
		return err
	}

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

	path, err := client.Fetch(context.Background(), domain, day)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
