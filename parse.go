package apischema

import (
	"fmt"
	"reflect"
)

// fieldSpec is the parser's normalized form of one declaration. Instances
// are transient: they live only for the duration of one compilation pass.
type fieldSpec struct {
	kind    DeclKind
	name    string
	typ     FieldType
	options Options // explicit options, unresolved, without the fields block
	nested  []fieldSpec
	ref     string
}

// parseDecls normalizes an ordered declaration list into fieldSpecs,
// enforcing the structural rules that need no type mapping: names present
// and unique, type tags recognized, embed references named, nested blocks
// well-formed. Order is preserved exactly; nothing is reordered or
// deduplicated.
func parseDecls(schema string, decls []Decl) ([]fieldSpec, error) {
	if len(decls) == 0 {
		return nil, &MalformedDeclarationError{Schema: schema, Reason: "declaration block is empty"}
	}
	specs := make([]fieldSpec, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		if d.Name == "" {
			return nil, &MalformedDeclarationError{Schema: schema, Reason: fmt.Sprintf("%s declaration is missing a field name", d.Kind)}
		}
		if _, dup := seen[d.Name]; dup {
			return nil, &MalformedDeclarationError{Schema: schema, Field: d.Name, Reason: "field name declared more than once"}
		}
		seen[d.Name] = struct{}{}

		spec, err := parseDecl(schema, d)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseDecl(schema string, d Decl) (fieldSpec, error) {
	switch d.Kind {
	case DeclEmbedsOne, DeclEmbedsMany:
		if d.Ref == "" {
			return fieldSpec{}, &MalformedDeclarationError{Schema: schema, Field: d.Name, Reason: "embed declaration is missing the referenced schema name"}
		}
		return fieldSpec{kind: d.Kind, name: d.Name, ref: d.Ref}, nil
	case DeclRequired, DeclOptional, DeclPlain:
		// handled below
	default:
		return fieldSpec{}, &MalformedDeclarationError{Schema: schema, Field: d.Name, Reason: "unknown declaration kind"}
	}

	if !d.Type.known() {
		return fieldSpec{}, &MalformedDeclarationError{Schema: schema, Field: d.Name, Reason: fmt.Sprintf("unrecognized type %q", d.Type)}
	}

	spec := fieldSpec{kind: d.Kind, name: d.Name, typ: d.Type}

	nested, rest, err := splitFieldsOption(schema, d)
	if err != nil {
		return fieldSpec{}, err
	}
	spec.options = rest

	if nested != nil {
		if !d.Type.nestable() {
			return fieldSpec{}, &MalformedDeclarationError{Schema: schema, Field: d.Name,
				Reason: fmt.Sprintf("inline field block is not valid for type %q", d.Type)}
		}
		children, err := parseDecls(schema+"."+d.Name, nested)
		if err != nil {
			return fieldSpec{}, err
		}
		spec.nested = children
	}

	if d.Type.IsArray() && d.Type.Elem() == TypeObject && spec.nested == nil {
		return fieldSpec{}, &MalformedDeclarationError{Schema: schema, Field: d.Name,
			Reason: "array of objects requires an inline field block"}
	}

	if d.Type == TypeEnum {
		if err := checkEnumShape(schema, d); err != nil {
			return fieldSpec{}, err
		}
	}
	return spec, nil
}

// splitFieldsOption extracts the inline nested declaration list from the
// options map, returning the remaining options untouched.
func splitFieldsOption(schema string, d Decl) ([]Decl, Options, error) {
	raw, ok := d.Options[OptFields]
	if !ok {
		return nil, d.Options, nil
	}
	nested, ok := raw.([]Decl)
	if !ok {
		return nil, nil, &MalformedDeclarationError{Schema: schema, Field: d.Name,
			Reason: fmt.Sprintf("fields option must hold a declaration list, got %T", raw)}
	}
	rest := make(Options, len(d.Options)-1)
	for k, v := range d.Options {
		if k == OptFields {
			continue
		}
		rest[k] = v
	}
	return nested, rest, nil
}

// checkEnumShape enforces that an enum declaration names its membership:
// either a values list or the included sugar. Content checks (coercion,
// emptiness) belong to the mapper.
func checkEnumShape(schema string, d Decl) error {
	for _, key := range []string{OptValues, OptIncluded} {
		if raw, ok := d.Options[key]; ok {
			if !isList(raw) {
				return &MalformedDeclarationError{Schema: schema, Field: d.Name,
					Reason: fmt.Sprintf("%s option must hold a list, got %T", key, raw)}
			}
			return nil
		}
	}
	return &MalformedDeclarationError{Schema: schema, Field: d.Name,
		Reason: "enum declaration needs a values list"}
}

func isList(v any) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
