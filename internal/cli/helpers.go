package cli

import (
	"fmt"
	"time"

	"github.com/runnerr0/snapsync/internal/config"
)

const dayLayout = "2006-01-02"

// loadConfig resolves the config from --config or the default location,
// creating the default file on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// parseDay parses a --date value, defaulting to today at UTC date
// granularity when empty.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}
