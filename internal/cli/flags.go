package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// MergeCommand — fold one day's export into a domain's cumulative store.
type MergeCommand struct {
	Domain string `long:"domain" description:"Domain mode: movies|tv|people|networks|keywords|companies" required:"true"`
	Export string `long:"export" description:"Path to the decompressed daily export (JSON Lines)" required:"true"`
	Store  string `long:"store" description:"Path to the cumulative store (default: per-domain file under data_dir)"`

	globals *GlobalFlags
	version string
}

// SyncCommand — run the daily pipeline: gate, fetch, merge, audit.
type SyncCommand struct {
	Date    string   `long:"date" description:"Export day in YYYY-MM-DD (default: today UTC)"`
	Domains []string `long:"domain" description:"Limit to a domain (repeatable; default: all)"`
	Force   bool     `long:"force" description:"Run even if today is already marked done"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show per-domain store totals, recent runs, gate state.
type StatusCommand struct {
	Limit int `long:"limit" description:"Number of recent runs to show" default:"10"`

	globals *GlobalFlags
	version string
}

// FetchCommand — download and decompress one domain's export without merging.
type FetchCommand struct {
	Domain string `long:"domain" description:"Domain mode" required:"true"`
	Date   string `long:"date" description:"Export day in YYYY-MM-DD (default: today UTC)"`

	globals *GlobalFlags
	version string
}

// PruneCommand — remove orphaned merge temporaries and stale downloads.
type PruneCommand struct {
	DryRun bool `long:"dry-run" description:"List what would be removed without deleting"`

	globals *GlobalFlags
	version string
}
