package openapi

import (
	"sort"

	"github.com/reoring/apischema/docschema"
)

// Convert lowers a documentation tree into OpenAPI schema form. Per-node
// required booleans are hoisted into the owning object's Required list,
// sorted for deterministic output; everything else carries over directly.
func Convert(n *docschema.Schema) *Schema {
	if n == nil {
		return nil
	}
	out := &Schema{
		Type:        n.Type,
		Format:      n.Format,
		Description: n.Description,
		Nullable:    n.Nullable,
		Example:     n.Example,
		Default:     n.Default,
		Items:       Convert(n.Items),
	}
	if n.Enum != nil {
		out.Enum = make([]string, len(n.Enum))
		copy(out.Enum, n.Enum)
	}
	if n.Minimum != nil {
		m := *n.Minimum
		out.Minimum = &m
	}
	if n.Maximum != nil {
		m := *n.Maximum
		out.Maximum = &m
	}
	if n.Properties != nil {
		out.Properties = make(map[string]*Schema, len(n.Properties))
		var required []string
		for name, child := range n.Properties {
			out.Properties[name] = Convert(child)
			if child.Required {
				required = append(required, name)
			}
		}
		sort.Strings(required)
		out.Required = required
	}
	return out
}
