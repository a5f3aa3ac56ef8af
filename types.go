package apischema

import "strings"

// FieldType identifies the semantic type of a declared field. Scalar types
// are the named constants; array types are composed with ArrayOf and carry
// their element type in the tag itself.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeUUID     FieldType = "uuid"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypeDecimal  FieldType = "decimal"
	TypeEnum     FieldType = "enum"
	TypeObject   FieldType = "object"
	TypeMap      FieldType = "map"
)

// ArrayOf composes an array type from its element type. Element types are
// restricted to string, integer and object; the restriction is enforced
// during compilation so the failure carries schema and field context.
func ArrayOf(elem FieldType) FieldType {
	return FieldType("array<" + string(elem) + ">")
}

// IsArray reports whether t is an array type.
func (t FieldType) IsArray() bool {
	return strings.HasPrefix(string(t), "array<") && strings.HasSuffix(string(t), ">")
}

// Elem returns the element type of an array type, or "" for non-arrays.
func (t FieldType) Elem() FieldType {
	if !t.IsArray() {
		return ""
	}
	return FieldType(string(t)[len("array<") : len(t)-1])
}

func (t FieldType) known() bool {
	if t.IsArray() {
		// Element validity is a subtype concern, checked by the mapper.
		return true
	}
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeUUID,
		TypeDate, TypeDateTime, TypeDecimal, TypeEnum, TypeObject, TypeMap:
		return true
	}
	return false
}

// nestable reports whether t may carry an inline "fields" block.
func (t FieldType) nestable() bool {
	return t == TypeObject || t == TypeMap || (t.IsArray() && t.Elem() == TypeObject)
}

// Options carries per-field compile options as an open key/value mapping.
// Values must resolve to concrete literals at compile time; unrecognized
// keys are dropped silently.
type Options map[string]any

// Option keys recognized by the compiler.
const (
	OptExample     = "example"
	OptFormat      = "format"
	OptMinimum     = "minimum"
	OptMaximum     = "maximum"
	OptValues      = "values"
	OptIncluded    = "included"
	OptDescription = "description"
	OptNullable    = "nullable"
	OptDefault     = "default"
	OptFields      = "fields"
)

// Merge returns a copy of o overlaid with the given layers, later keys
// winning. Neither o nor the layers are mutated.
func (o Options) Merge(layers ...Options) Options {
	all := make([]Options, 0, len(layers)+1)
	all = append(all, o)
	all = append(all, layers...)
	return mergeOptions(all...)
}

// mergeOptions overlays later maps onto earlier ones. Inputs are not
// mutated; a nil result means no options were supplied at all.
func mergeOptions(layers ...Options) Options {
	var out Options
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if out == nil {
			out = make(Options, len(layer))
		}
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
