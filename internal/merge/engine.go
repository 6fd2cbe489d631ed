package merge

import (
	"fmt"
	"io"
	"os"
)

// Merge folds one day's export into the cumulative store for a domain,
// exactly once per identifier. The existing store is replayed first in its
// original order (dropping any malformed or duplicate historical lines),
// then genuinely new records from the export are appended in first-seen
// order. An identifier already present — in the store or earlier in the
// same export — keeps its first-seen payload; later payloads for the same
// id are ignored.
//
// The updated store is published atomically; on any failure the store is
// left at its last-good state and an error is returned. Re-running the same
// export against the resulting store is a no-op with Added == 0.
func Merge(domain Domain, exportPath, storePath string) (Outcome, error) {
	if _, err := ParseDomain(string(domain)); err != nil {
		return Outcome{}, err
	}
	if _, err := os.Stat(exportPath); err != nil {
		return Outcome{}, fmt.Errorf("open export: %w", err)
	}

	out := Outcome{Domain: domain, StorePath: storePath}
	seen := make(map[int64]struct{})
	exportLines := 0

	err := atomicReplace(storePath, func(w io.Writer) error {
		// Replay the historical store, cleaning internal duplicates.
		if err := eachLine(storePath, func(line []byte) error {
			id, payload, err := Normalize(domain, line)
			if err != nil {
				return nil
			}
			if _, dup := seen[id]; dup {
				return nil
			}
			seen[id] = struct{}{}
			out.Total++
			return writeRecord(w, payload)
		}); err != nil {
			return fmt.Errorf("replay store: %w", err)
		}

		// Append new records from today's export.
		if err := eachLine(exportPath, func(line []byte) error {
			exportLines++
			id, payload, err := Normalize(domain, line)
			if err != nil {
				out.Rejected++
				return nil
			}
			if _, dup := seen[id]; dup {
				return nil
			}
			seen[id] = struct{}{}
			out.Added++
			out.Total++
			return writeRecord(w, payload)
		}); err != nil {
			return fmt.Errorf("read export: %w", err)
		}

		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	out.NoValidRecords = exportLines > 0 && exportLines == out.Rejected
	return out, nil
}

func writeRecord(w io.Writer, payload []byte) error {
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
