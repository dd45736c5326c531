// Package record implements the raw valuation record model, the alias-aware
// field resolver and the normalization pass that flattens the various legacy
// record shapes into one flat working object.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one valuation case as supplied by the form layer or a data
// store. It is an arbitrarily-nested, loosely-typed tree; no field is
// guaranteed present, and consumers must treat absence, null, empty string
// and wrong-type values identically as unset.
type Record map[string]any

// FromJSON parses a Record from raw JSON bytes.
func FromJSON(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	return r, nil
}

// Lookup walks a dotted path through the record with null-safe traversal.
// Map keys and numeric slice indexes are supported as path segments. The
// second return value reports whether the full path exists; a nil value at
// the end of an existing path is reported as not found.
func (r Record) Lookup(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}

	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case Record:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}

	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Clone returns a shallow copy of the record's top level. Nested values are
// shared; the normalizer never mutates them.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// section returns a nested map at the given dotted path, or nil if the path
// is absent or not a map.
func (r Record) section(path string) map[string]any {
	v, ok := r.Lookup(path)
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]any:
		return m
	case Record:
		return m
	default:
		return nil
	}
}
