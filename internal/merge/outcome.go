package merge

import "fmt"

// Outcome is the structured result of one merge run, returned directly to
// the caller instead of being scraped from output text.
type Outcome struct {
	Domain   Domain `json:"domain"`
	Added    int    `json:"added"`
	Total    int    `json:"total"`
	Rejected int    `json:"rejected"`

	// NoValidRecords is set when the export contained lines but none of
	// them parsed as records. It lets callers tell a corrupt download
	// apart from a quiet day; the run itself still succeeds.
	NoValidRecords bool `json:"no_valid_records"`

	StorePath string `json:"store_path"`
}

// Summary renders the one-line run report consumed by orchestrators.
func (o Outcome) Summary() string {
	return fmt.Sprintf("%s: added=%d total=%d -> %s", o.Domain, o.Added, o.Total, o.StorePath)
}
