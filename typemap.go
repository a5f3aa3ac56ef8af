package apischema

import (
	"fmt"
	"time"

	"github.com/reoring/apischema/docschema"
)

// Canonical examples injected for temporal types when the caller supplies
// none, so published contracts always show a well-formed value.
const (
	CanonicalDateExample     = "2024-01-15"
	CanonicalDateTimeExample = "2024-01-15T10:30:00Z"
)

const dateLayout = "2006-01-02"

// recognizedOptions is the closed set the mapper reads. Anything else is
// dropped before literal resolution, so a non-literal value under an
// unknown key never fails compilation. The fields block is consumed by the
// parser and never reaches the mapper.
var recognizedOptions = map[string]struct{}{
	OptExample:     {},
	OptFormat:      {},
	OptMinimum:     {},
	OptMaximum:     {},
	OptValues:      {},
	OptIncluded:    {},
	OptDescription: {},
	OptNullable:    {},
	OptDefault:     {},
}

// mapField lowers one parsed field declaration into its documentation node
// and validation rule. Embed declarations never reach the mapper; the
// resolver handles them.
func mapField(schema string, f fieldSpec, reg *Registry) (*docschema.Schema, FieldRule, error) {
	opts, err := resolveOptions(schema, f)
	if err != nil {
		return nil, FieldRule{}, err
	}
	if err := rejectArbitraryPrecision(schema, f, opts); err != nil {
		return nil, FieldRule{}, err
	}

	rule := FieldRule{Name: f.name, Type: f.typ, Required: f.kind == DeclRequired}
	node, err := typeNode(schema, f, opts, &rule, reg)
	if err != nil {
		return nil, FieldRule{}, err
	}
	if err := applyCommonOptions(schema, f, opts, node, &rule); err != nil {
		return nil, FieldRule{}, err
	}
	node.Required = f.kind == DeclRequired
	return node, rule, nil
}

// resolveOptions filters the declaration's options down to the recognized
// set and reduces every value to a concrete literal.
func resolveOptions(schema string, f fieldSpec) (Options, error) {
	if len(f.options) == 0 {
		return nil, nil
	}
	out := make(Options, len(f.options))
	for k, raw := range f.options {
		if _, ok := recognizedOptions[k]; !ok {
			continue
		}
		v, ok := resolveLiteral(raw)
		if !ok {
			return nil, &UnresolvedOptionValueError{Schema: schema, Field: f.name, Option: k, Value: raw}
		}
		out[k] = v
	}
	return out, nil
}

// rejectArbitraryPrecision guards the serialized option positions against
// math/big values on every field type, not just decimal fields.
func rejectArbitraryPrecision(schema string, f fieldSpec, opts Options) error {
	for _, k := range []string{OptExample, OptMinimum, OptMaximum, OptDefault} {
		if isArbitraryPrecision(opts[k]) {
			return &DecimalValueNotAllowedError{Schema: schema, Field: f.name, Option: k}
		}
	}
	return nil
}

// typeNode builds the type-specific part of the documentation node and
// fills the type-specific parts of the rule.
func typeNode(schema string, f fieldSpec, opts Options, rule *FieldRule, reg *Registry) (*docschema.Schema, error) {
	if f.typ.IsArray() {
		return arrayNode(schema, f, rule, reg)
	}

	switch f.typ {
	case TypeString:
		if raw, ok := opts[OptIncluded]; ok {
			// string + included is sugar for an enum declaration and
			// compiles to the identical node.
			return enumNode(schema, f, raw, rule)
		}
		return &docschema.Schema{Type: "string"}, nil

	case TypeEnum:
		raw, ok := opts[OptValues]
		if !ok {
			raw = opts[OptIncluded]
		}
		return enumNode(schema, f, raw, rule)

	case TypeInteger, TypeNumber, TypeBoolean:
		return &docschema.Schema{Type: string(f.typ)}, nil

	case TypeUUID:
		rule.Type = TypeString
		rule.Format = "uuid"
		return &docschema.Schema{Type: "string", Format: "uuid"}, nil

	case TypeDate:
		return temporalNode(schema, f, opts, "date", dateLayout, CanonicalDateExample)

	case TypeDateTime:
		return temporalNode(schema, f, opts, "date-time", time.RFC3339, CanonicalDateTimeExample)

	case TypeDecimal:
		return &docschema.Schema{Type: "number", Format: "double"}, nil

	case TypeObject, TypeMap:
		// map is a declaration-surface alias; both artifacts carry object.
		rule.Type = TypeObject
		node := &docschema.Schema{Type: "object"}
		if f.nested != nil {
			child, childRules, err := compileBlock(schema, f.nested, reg)
			if err != nil {
				return nil, err
			}
			// The block already produced a full object node; use it as-is.
			node = child
			rule.Fields = childRules
		}
		return node, nil
	}
	// parseDecls vets type tags, so this is unreachable for parsed input.
	return nil, &MalformedDeclarationError{Schema: schema, Field: f.name,
		Reason: fmt.Sprintf("unrecognized type %q", f.typ)}
}

// arrayNode handles the three supported element types. Anything else is an
// unsupported subtype, including element names that are not types at all.
func arrayNode(schema string, f fieldSpec, rule *FieldRule, reg *Registry) (*docschema.Schema, error) {
	elem := f.typ.Elem()
	rule.Elem = elem
	switch elem {
	case TypeString, TypeInteger:
		return &docschema.Schema{Type: "array", Items: &docschema.Schema{Type: string(elem)}}, nil
	case TypeObject:
		child, childRules, err := compileBlock(schema, f.nested, reg)
		if err != nil {
			return nil, err
		}
		rule.Fields = childRules
		return &docschema.Schema{Type: "array", Items: child}, nil
	}
	return nil, &UnsupportedSubtypeError{Schema: schema, Field: f.name, Subtype: elem}
}

// enumNode stringifies the membership list. Both artifacts carry a
// string type with an enum set, so an explicit enum declaration and the
// string+included sugar are indistinguishable downstream.
func enumNode(schema string, f fieldSpec, raw any, rule *FieldRule) (*docschema.Schema, error) {
	values, err := enumStrings(schema, f, raw)
	if err != nil {
		return nil, err
	}
	rule.Type = TypeString
	rule.Enum = values
	enum := make([]string, len(values))
	copy(enum, values)
	return &docschema.Schema{Type: "string", Enum: enum}, nil
}

func enumStrings(schema string, f fieldSpec, raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &MalformedDeclarationError{Schema: schema, Field: f.name,
			Reason: fmt.Sprintf("enum membership must hold a list, got %T", raw)}
	}
	if len(list) == 0 {
		return nil, &MalformedDeclarationError{Schema: schema, Field: f.name,
			Reason: "enum membership list is empty"}
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := stringifyLiteral(e)
		if !ok {
			return nil, &MalformedDeclarationError{Schema: schema, Field: f.name,
				Reason: fmt.Sprintf("enum value of type %T cannot be rendered as a string", e)}
		}
		out = append(out, s)
	}
	return out, nil
}

// temporalNode maps date and datetime fields. A supplied example is
// coerced to its string form; otherwise the canonical example is injected.
func temporalNode(schema string, f fieldSpec, opts Options, format, layout, canonical string) (*docschema.Schema, error) {
	node := &docschema.Schema{Type: "string", Format: format, Example: canonical}
	if raw, ok := opts[OptExample]; ok {
		switch x := raw.(type) {
		case time.Time:
			node.Example = x.UTC().Format(layout)
		case string:
			node.Example = x
		default:
			s, ok := stringifyLiteral(raw)
			if !ok {
				return nil, &MalformedDeclarationError{Schema: schema, Field: f.name,
					Reason: fmt.Sprintf("example of type %T cannot be rendered as a string", raw)}
			}
			node.Example = s
		}
	}
	return node, nil
}

// applyCommonOptions folds the cross-type options into both artifacts.
// Explicit options override type-level defaults; an enum set suppresses
// format entirely.
func applyCommonOptions(schema string, f fieldSpec, opts Options, node *docschema.Schema, rule *FieldRule) error {
	if v, ok := opts[OptFormat]; ok && len(node.Enum) == 0 {
		s, sok := v.(string)
		if !sok {
			return &MalformedDeclarationError{Schema: schema, Field: f.name,
				Reason: fmt.Sprintf("format option must be a string, got %T", v)}
		}
		node.Format = s
		rule.Format = s
	}
	if v, ok := opts[OptDescription]; ok {
		s, sok := v.(string)
		if !sok {
			return &MalformedDeclarationError{Schema: schema, Field: f.name,
				Reason: fmt.Sprintf("description option must be a string, got %T", v)}
		}
		node.Description = s
	}
	if v, ok := opts[OptNullable]; ok {
		b, bok := v.(bool)
		if !bok {
			return &MalformedDeclarationError{Schema: schema, Field: f.name,
				Reason: fmt.Sprintf("nullable option must be a boolean, got %T", v)}
		}
		node.Nullable = b
		rule.Nullable = b
	}
	if v, ok := opts[OptExample]; ok && node.Example == nil {
		node.Example = displayValue(v)
	}
	if v, ok := opts[OptDefault]; ok {
		// Each artifact gets its own copy; a shared slice or map would
		// let a mutation through one reach the other.
		dv := displayValue(v)
		node.Default = dv
		rule.Default = cloneLiteral(dv)
	}
	for _, bound := range []struct {
		key string
		doc **float64
		val **float64
	}{
		{OptMinimum, &node.Minimum, &rule.Minimum},
		{OptMaximum, &node.Maximum, &rule.Maximum},
	} {
		v, ok := opts[bound.key]
		if !ok {
			continue
		}
		fv, fok := coerceFloat(v)
		if !fok {
			return &MalformedDeclarationError{Schema: schema, Field: f.name,
				Reason: fmt.Sprintf("%s option must be numeric, got %T", bound.key, v)}
		}
		b := fv
		*bound.doc = &b
		c := fv
		*bound.val = &c
	}
	return nil
}

// displayValue renders a resolved literal in serialized form. Timestamps
// become RFC 3339 strings so both artifacts carry plain JSON scalars.
func displayValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return v
}
