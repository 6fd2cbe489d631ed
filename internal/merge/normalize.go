package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// errBadRecord marks a line that cannot become a Record. Callers count it as
// a rejection; it never aborts a run.
var errBadRecord = errors.New("malformed record")

// Normalize parses one raw export line into its identifier and a compact
// canonical payload. It is pure: same line in, same record out.
//
// A line is rejected when it is not a JSON object, or its "id" field is
// missing or not interpretable as an integer. Payload harmonization is
// minimal and per-domain: movies get "title" backfilled from
// "original_title", tv gets "name" from "original_name", and the flat
// domains (people, networks, keywords, companies) get "name" backfilled
// from "original_name" or "original_title".
func Normalize(domain Domain, line []byte) (int64, []byte, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return 0, nil, errBadRecord
	}

	id, ok := extractID(obj["id"])
	if !ok {
		return 0, nil, errBadRecord
	}

	normalizePayload(domain, obj)

	payload, err := json.Marshal(obj)
	if err != nil {
		return 0, nil, errBadRecord
	}
	return id, payload, nil
}

// extractID accepts the identifier as a JSON number or a numeric string.
func extractID(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if id, err := n.Int64(); err == nil {
			return id, true
		}
		// Upstream occasionally emits ids as floats (e.g. 42.0).
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
	case string:
		if id, err := strconv.ParseInt(n, 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

func normalizePayload(domain Domain, obj map[string]any) {
	switch domain {
	case Movies:
		if _, ok := obj["title"]; !ok {
			if t, ok := obj["original_title"]; ok {
				obj["title"] = t
			}
		}
	case TV:
		if _, ok := obj["name"]; !ok {
			if n, ok := obj["original_name"]; ok {
				obj["name"] = n
			}
		}
	case People, Networks, Keywords, Companies:
		if _, ok := obj["name"]; !ok {
			if n, ok := obj["original_name"]; ok {
				obj["name"] = n
			} else if t, ok := obj["original_title"]; ok {
				obj["name"] = t
			} else {
				obj["name"] = ""
			}
		}
	}
}
