package history

import "database/sql"

// migrateV001 creates the initial run-history schema. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			domain      TEXT NOT NULL,
			day         TEXT NOT NULL,
			status      TEXT NOT NULL,
			added       INTEGER NOT NULL DEFAULT 0,
			total       INTEGER NOT NULL DEFAULT 0,
			rejected    INTEGER NOT NULL DEFAULT 0,
			recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_day ON runs(day)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_domain_day ON runs(domain, day)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
