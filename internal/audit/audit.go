// Package audit appends one line per merge run to a plain-text log in the
// form "<UTC timestamp> | <STATUS> <domain> <day> [added=<n> total=<n>]".
// The log is the durable record orchestrators grep for alerting; absence of
// an OK line for a day means the run did not succeed.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Logger appends run lines to a single audit file.
type Logger struct {
	Path string

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewLogger(path string) *Logger {
	return &Logger{Path: path, Now: time.Now}
}

// OK records a successful run with its counters.
func (l *Logger) OK(domain string, day time.Time, added, total int) error {
	return l.append(fmt.Sprintf("%s | %s %s %s added=%d total=%d",
		l.timestamp(), StatusOK, domain, day.UTC().Format("2006-01-02"), added, total))
}

// Error records a failed run. Counters are omitted because none are valid.
func (l *Logger) Error(domain string, day time.Time) error {
	return l.append(fmt.Sprintf("%s | %s %s %s",
		l.timestamp(), StatusError, domain, day.UTC().Format("2006-01-02")))
}

func (l *Logger) timestamp() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return now().UTC().Format(time.RFC3339)
}

func (l *Logger) append(line string) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}
	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append audit line: %w", err)
	}
	return nil
}
