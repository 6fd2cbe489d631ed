package history

import "time"

// Run status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one recorded merge run for one domain and one export day.
type Run struct {
	ID         string
	Domain     string
	Day        time.Time // UTC calendar day of the export
	Status     string    // "ok" or "error"
	Added      int
	Total      int
	Rejected   int
	RecordedAt time.Time
}

// DomainTotal pairs a domain with the store total reported by its most
// recent successful run.
type DomainTotal struct {
	Domain string
	Total  int64
}
