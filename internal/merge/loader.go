package merge

import (
	"bufio"
	"bytes"
	"os"
)

// maxLineBytes bounds a single export line. Real payloads stay well under
// this; the headroom covers alternative-title blobs on popular entries.
const maxLineBytes = 4 << 20

// eachLine streams the non-blank lines of path into fn. A missing file is
// the expected pre-first-merge state and yields zero lines without error.
// The line slice is only valid for the duration of the callback.
func eachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// CountRecords returns the number of non-blank lines in a store file. A
// missing store counts as zero.
func CountRecords(path string) (int, error) {
	n := 0
	err := eachLine(path, func([]byte) error {
		n++
		return nil
	})
	return n, err
}
