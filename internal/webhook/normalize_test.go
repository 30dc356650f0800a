package webhook

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizePayload_DateLeaf(t *testing.T) {
	payload := map[string]any{
		"updated_at": "2024-01-05T10:00:00Z",
	}

	got := NormalizePayload(payload)

	ts, ok := got["updated_at"].(time.Time)
	if !ok {
		t.Fatalf("updated_at = %T, want time.Time", got["updated_at"])
	}
	want := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("updated_at = %v, want %v", ts, want)
	}
	if ts.UnixMilli() != want.UnixMilli() {
		t.Errorf("updated_at millis = %d, want %d", ts.UnixMilli(), want.UnixMilli())
	}
}

func TestNormalizePayload_NonDateStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no T separator", "2024 total"},
		{"wrong prefix", "1999-01-05T10:00:00Z"},
		{"shape matches but unparsable", "20 Things To Try"},
		{"invalid calendar date", "2024-13-05T10:00:00Z"},
		{"plain text", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePayload(map[string]any{"field": tt.in})
			if got["field"] != tt.in {
				t.Errorf("field = %v, want unchanged %q", got["field"], tt.in)
			}
		})
	}
}

func TestNormalizePayload_NestedStructures(t *testing.T) {
	payload := map[string]any{
		"order": map[string]any{
			"line_items": []any{
				map[string]any{
					"shipped_at": "2024-02-01T08:30:00+02:00",
					"title":      "widget",
				},
				map[string]any{
					"shipped_at": "2024-02-02T09:00:00Z",
				},
			},
		},
	}

	got := NormalizePayload(payload)

	items := got["order"].(map[string]any)["line_items"].([]any)
	first := items[0].(map[string]any)
	second := items[1].(map[string]any)

	if _, ok := first["shipped_at"].(time.Time); !ok {
		t.Errorf("first shipped_at = %T, want time.Time", first["shipped_at"])
	}
	if first["title"] != "widget" {
		t.Errorf("title = %v, want widget", first["title"])
	}
	if _, ok := second["shipped_at"].(time.Time); !ok {
		t.Errorf("second shipped_at = %T, want time.Time", second["shipped_at"])
	}
}

func TestNormalizePayload_ScalarsPassThrough(t *testing.T) {
	payload := map[string]any{
		"count":   json.Number("42"),
		"active":  true,
		"nothing": nil,
		"ratio":   json.Number("0.25"),
	}

	got := NormalizePayload(payload)

	if got["count"] != json.Number("42") {
		t.Errorf("count = %v, want 42", got["count"])
	}
	if got["active"] != true {
		t.Errorf("active = %v, want true", got["active"])
	}
	if got["nothing"] != nil {
		t.Errorf("nothing = %v, want nil", got["nothing"])
	}
	if got["ratio"] != json.Number("0.25") {
		t.Errorf("ratio = %v, want 0.25", got["ratio"])
	}
}

func TestNormalizePayload_KeysRetained(t *testing.T) {
	payload := map[string]any{
		"id":         json.Number("42"),
		"name":       "X",
		"created_at": "2024-01-05T10:00:00Z",
		"tags":       []any{"a", "b"},
	}

	got := NormalizePayload(payload)

	if len(got) != len(payload) {
		t.Fatalf("normalized payload has %d keys, want %d", len(got), len(payload))
	}
	for k := range payload {
		if _, ok := got[k]; !ok {
			t.Errorf("key %q missing from normalized payload", k)
		}
	}
}

func TestNormalizePayload_InputNotMutated(t *testing.T) {
	payload := map[string]any{
		"created_at": "2024-01-05T10:00:00Z",
	}

	NormalizePayload(payload)

	if payload["created_at"] != "2024-01-05T10:00:00Z" {
		t.Errorf("input payload mutated: created_at = %v", payload["created_at"])
	}
}
