package apischema

import "github.com/reoring/apischema/docschema"

// compileBlock folds an ordered declaration block into one object node and
// the matching ordered rules. Top-level compilation and inline nested
// blocks share this function, so a single bare field and a block of fields
// normalize to the same shape at every recursion level.
func compileBlock(schema string, fields []fieldSpec, reg *Registry) (*docschema.Schema, []FieldRule, error) {
	node := &docschema.Schema{
		Type:       "object",
		Properties: make(map[string]*docschema.Schema, len(fields)),
	}
	rules := make([]FieldRule, 0, len(fields))

	for _, f := range fields {
		var (
			child *docschema.Schema
			rule  FieldRule
			err   error
		)
		switch f.kind {
		case DeclEmbedsOne, DeclEmbedsMany:
			child, rule, err = resolveEmbed(schema, f, reg)
		default:
			child, rule, err = mapField(schema, f, reg)
		}
		if err != nil {
			return nil, nil, err
		}
		node.Properties[f.name] = child
		if f.kind == DeclPlain {
			// Documentation-only fields never reach the engine.
			continue
		}
		rules = append(rules, rule)
	}
	return node, rules, nil
}
