// Package gate decides, once per UTC calendar day, whether the sync
// pipeline has already completed. The last-success date is held by a small
// injectable state store so orchestration code and tests do not depend on a
// particular file on disk.
package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// StateStore persists the shared last-success date. Read reports ok=false
// when no date has ever been recorded.
type StateStore interface {
	Read() (date time.Time, ok bool, err error)
	Write(date time.Time) error
}

// Gate wraps a StateStore with the day-level decision logic.
type Gate struct {
	state StateStore
}

func New(state StateStore) *Gate {
	return &Gate{state: state}
}

// DoneFor reports whether a successful run has already been recorded for
// the given day (compared at UTC date granularity).
func (g *Gate) DoneFor(day time.Time) (bool, error) {
	last, ok, err := g.state.Read()
	if err != nil {
		return false, fmt.Errorf("read last-success marker: %w", err)
	}
	if !ok {
		return false, nil
	}
	return !last.Before(truncateDay(day)), nil
}

// MarkDone records the given day as completed. Callers must only invoke it
// after at least one domain merge succeeded for that day.
func (g *Gate) MarkDone(day time.Time) error {
	if err := g.state.Write(truncateDay(day)); err != nil {
		return fmt.Errorf("write last-success marker: %w", err)
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FileState stores the marker as a single YYYY-MM-DD line in a file.
type FileState struct {
	Path string
}

func (s *FileState) Read() (time.Time, bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, false, nil
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt marker %q: %w", raw, err)
	}
	return date, true, nil
}

func (s *FileState) Write(date time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(date.UTC().Format(dateLayout)+"\n"), 0644)
}

// MemState is an in-memory StateStore for tests.
type MemState struct {
	date time.Time
	set  bool
}

func (s *MemState) Read() (time.Time, bool, error) { return s.date, s.set, nil }

func (s *MemState) Write(date time.Time) error {
	s.date, s.set = date, true
	return nil
}
