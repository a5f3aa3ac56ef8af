// Package docschema defines the documentation half of a compiled schema: a
// single node of the OpenAPI-compatible tree published as the API contract.
//
// One deliberate departure from stock JSON Schema: Required is a per-node
// boolean and is always serialized, even when false. Downstream consumers
// key off the flag being present on every node rather than reconstructing
// it from parent-level required arrays; the openapi package hoists the
// flags back into standard form when rendering a full document.
package docschema

import json "github.com/goccy/go-json"

// Schema is one node of the documentation tree. Leaves describe scalars;
// object nodes carry Properties; array nodes carry Items.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required"`
	Nullable    bool               `json:"nullable,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Example     any                `json:"example,omitempty"`
	Default     any                `json:"default,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
}

// Clone returns a deep copy. Compiled trees are immutable; every hand-out
// and every embedding splice goes through Clone so no two schemas ever
// share nodes.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Enum != nil {
		out.Enum = make([]string, len(s.Enum))
		copy(out.Enum, s.Enum)
	}
	if s.Minimum != nil {
		m := *s.Minimum
		out.Minimum = &m
	}
	if s.Maximum != nil {
		m := *s.Maximum
		out.Maximum = &m
	}
	out.Items = s.Items.Clone()
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Clone()
		}
	}
	out.Example = cloneValue(s.Example)
	out.Default = cloneValue(s.Default)
	return &out
}

// JSON serializes the node. Map keys are sorted by the encoder, so output
// is deterministic across runs.
func (s *Schema) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// JSONIndent serializes the node for human consumption.
func (s *Schema) JSONIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// cloneValue deep-copies the literal shapes the compiler produces for
// Example and Default (scalars, []any, map[string]any).
func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
