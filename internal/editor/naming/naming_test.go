package naming

import (
	"encoding/json"
	"testing"

	"focuspoint-editor/internal/editor/models"
)

func schema(t *testing.T, raw string) models.Schema {
	t.Helper()
	var s models.Schema
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func TestResolve_FallbackWithoutNameFields(t *testing.T) {
	s := schema(t, `{"label":{"type":"text"}}`)
	area := models.FocusArea{Fields: map[string]*string{"label": models.StringPtr("Hero")}}
	if got := Resolve(s, area, 2); got != "Focus Point 3" {
		t.Fatalf("expected fallback name, got %q", got)
	}
}

func TestResolve_JoinsInSchemaOrder(t *testing.T) {
	s := schema(t, `{
		"title":{"type":"text","useAsName":"1"},
		"note":{"type":"textarea"},
		"sub":{"type":"text","useAsName":true},
		"code":{"type":"text","useAsName":1},
		"alt":{"type":"text","useAsName":"true"},
		"off":{"type":"text","useAsName":"yes"}
	}`)
	area := models.FocusArea{Fields: map[string]*string{
		"title": models.StringPtr("Tower"),
		"sub":   models.StringPtr("North"),
		"code":  nil,
		"alt":   models.StringPtr(""),
		"off":   models.StringPtr("ignored"),
	}}
	if got := Resolve(s, area, 0); got != "Tower, North" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestResolve_AllEmptyFallsBack(t *testing.T) {
	s := schema(t, `{"title":{"type":"text","useAsName":true}}`)
	area := models.FocusArea{Fields: map[string]*string{"title": models.StringPtr("")}}
	if got := Resolve(s, area, 0); got != "Focus Point 1" {
		t.Fatalf("unexpected name %q", got)
	}
}
