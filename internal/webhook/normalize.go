package webhook

import (
	"strings"
	"time"
)

// Date-shape heuristic: a four-digit-year-like prefix for the current century
// plus a literal "T" separator. Deliberately loose; it can misfire on
// non-date strings and misses dates outside the 2000s. Strings matching the
// shape that fail to parse are passed through untouched.
const datePrefix = "20"

// NormalizePayload returns a copy of the decoded payload with every
// date-shaped string leaf replaced by a time.Time. All keys are retained;
// non-string leaves pass through unchanged.
func NormalizePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return NormalizePayload(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case string:
		return normalizeString(val)
	default:
		// numbers, bools, nulls
		return v
	}
}

func normalizeString(s string) any {
	if !strings.HasPrefix(s, datePrefix) || !strings.Contains(s, "T") {
		return s
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return ts
}
