package apischema

import "context"

// ValidationDescriptor is the engine-facing compilation artifact: the
// ordered field rules of one schema, stripped of documentation-only options
// (no examples, no descriptions). It mirrors the declaration order exactly.
type ValidationDescriptor struct {
	Schema string
	Fields []FieldRule
}

// clone deep-copies the descriptor so callers cannot reach back into the
// registry's artifact.
func (d ValidationDescriptor) clone() ValidationDescriptor {
	return ValidationDescriptor{Schema: d.Schema, Fields: cloneRules(d.Fields)}
}

// FieldRule carries the validation constraints for one field. Type keeps
// the declared semantic tag (date, datetime, decimal) so an engine can
// dispatch per-type validators; uuid is lowered to string with the uuid
// format carried in Format, enum to string with membership in Enum, and
// map to object. Nested shapes (objects, arrays of objects, embeds)
// carry their own rules in Fields.
type FieldRule struct {
	Name     string
	Type     FieldType
	Required bool
	Nullable bool
	Format   string
	Enum     []string
	Minimum  *float64
	Maximum  *float64
	Default  any
	Elem     FieldType
	Fields   []FieldRule
}

func cloneRules(rules []FieldRule) []FieldRule {
	if rules == nil {
		return nil
	}
	out := make([]FieldRule, len(rules))
	for i, r := range rules {
		c := r
		if r.Enum != nil {
			c.Enum = make([]string, len(r.Enum))
			copy(c.Enum, r.Enum)
		}
		if r.Minimum != nil {
			m := *r.Minimum
			c.Minimum = &m
		}
		if r.Maximum != nil {
			m := *r.Maximum
			c.Maximum = &m
		}
		c.Default = cloneLiteral(r.Default)
		c.Fields = cloneRules(r.Fields)
		out[i] = c
	}
	return out
}

// cloneLiteral deep-copies the literal shapes option resolution produces
// (scalars, []any, map[string]any), so no two artifacts share a mutable
// default value.
func cloneLiteral(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneLiteral(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneLiteral(e)
		}
		return out
	default:
		return v
	}
}

// FieldErrorMap accumulates validation messages per field path.
type FieldErrorMap map[string][]string

// Add appends a message for a field.
func (m FieldErrorMap) Add(field, msg string) {
	m[field] = append(m[field], msg)
}

// Result is the outcome of one validation run. Invalid input is an
// expected outcome, reported in the result, not an error return; engine
// error returns are reserved for the engine's own failures.
type Result struct {
	Valid  bool
	Value  map[string]any
	Errors FieldErrorMap
}

// OK wraps a successfully validated value.
func OK(value map[string]any) Result {
	return Result{Valid: true, Value: value}
}

// Invalid wraps accumulated field errors.
func Invalid(errs FieldErrorMap) Result {
	return Result{Valid: false, Errors: errs}
}

// Engine is the contract a compiled descriptor is handed to. The
// validation algorithm itself lives outside this package; compilation only
// guarantees the descriptor stays consistent with the published
// documentation tree.
type Engine interface {
	Validate(ctx context.Context, desc ValidationDescriptor, input map[string]any) Result
}
