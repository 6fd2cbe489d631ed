package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: "~/.local/share/snapsync/out",
			WorkDir: "~/.local/share/snapsync/work",
		},
		Fetch: FetchConfig{
			BaseURL:           "http://files.tmdb.org/p/exports",
			TimeoutSeconds:    120,
			RetryCount:        2,
			RetryDelaySeconds: 10,
		},
		Audit: AuditConfig{
			File: "~/.local/share/snapsync/logs/update.log",
		},
		Gate: GateConfig{
			MarkerFile: "~/.local/share/snapsync/state/last_success.txt",
		},
		History: HistoryConfig{
			File: "~/.local/share/snapsync/state/history.db",
		},
		Domains: []string{},
	}
}
