package docschema_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/apischema/docschema"
)

func TestSchema_RequiredAlwaysSerialized(t *testing.T) {
	leaf := &docschema.Schema{Type: "string"}
	b, err := leaf.JSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"required":false`) {
		t.Fatalf("required flag omitted: %s", b)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["required"]; !ok {
		t.Fatalf("required key missing: %v", m)
	}
}

func TestSchema_JSONIsDeterministic(t *testing.T) {
	s := &docschema.Schema{
		Type: "object",
		Properties: map[string]*docschema.Schema{
			"zulu":  {Type: "string"},
			"alpha": {Type: "integer", Required: true},
			"mike":  {Type: "boolean"},
		},
	}
	first, err := s.JSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := s.JSON()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(first) != string(again) {
			t.Fatalf("serialization unstable\nfirst=%s\nagain=%s", first, again)
		}
	}
	if idx := strings.Index(string(first), "alpha"); idx == -1 || idx > strings.Index(string(first), "zulu") {
		t.Fatalf("keys not sorted: %s", first)
	}
}

func TestSchema_CloneIsDeep(t *testing.T) {
	min := 1.0
	original := &docschema.Schema{
		Type: "object",
		Enum: []string{"a", "b"},
		Example: map[string]any{
			"tags": []any{"x"},
		},
		Minimum: &min,
		Items:   &docschema.Schema{Type: "string"},
		Properties: map[string]*docschema.Schema{
			"child": {Type: "integer", Required: true},
		},
	}
	clone := original.Clone()
	if !reflect.DeepEqual(original, clone) {
		t.Fatalf("clone differs from original")
	}

	clone.Enum[0] = "mutated"
	*clone.Minimum = 99
	clone.Items.Type = "mutated"
	clone.Properties["child"].Type = "mutated"
	clone.Example.(map[string]any)["tags"].([]any)[0] = "mutated"

	if original.Enum[0] != "a" {
		t.Fatalf("enum shared")
	}
	if *original.Minimum != 1.0 {
		t.Fatalf("minimum shared")
	}
	if original.Items.Type != "string" {
		t.Fatalf("items shared")
	}
	if original.Properties["child"].Type != "integer" {
		t.Fatalf("properties shared")
	}
	if original.Example.(map[string]any)["tags"].([]any)[0] != "x" {
		t.Fatalf("example shared")
	}
}

func TestSchema_CloneNil(t *testing.T) {
	var s *docschema.Schema
	if s.Clone() != nil {
		t.Fatalf("nil clone should be nil")
	}
}
