package apischema

import "fmt"

// Compilation failures are configuration defects. They surface while the
// registry is being built at startup, never on a request path, so callers
// treat them as fatal. Each failure class is a distinct type so callers can
// match with errors.As; every error message carries the schema and field
// that produced it.

// Error codes (exported consts so log pipelines and tests can match on a
// stable tag instead of message text).
const (
	CodeMalformedDeclaration   = "malformed_declaration"
	CodeUnresolvedOptionValue  = "unresolved_option_value"
	CodeUnsupportedSubtype     = "unsupported_subtype"
	CodeDecimalValueNotAllowed = "decimal_value_not_allowed"
	CodeUnknownSchemaReference = "unknown_schema_reference"
	CodeSchemaNotFound         = "schema_not_found"
)

// MalformedDeclarationError reports a declaration that is structurally
// unusable: missing name, unrecognized type tag, duplicate field names, a
// nested block of the wrong shape, or an enum without membership values.
type MalformedDeclarationError struct {
	Schema string
	Field  string
	Reason string
}

func (e *MalformedDeclarationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("apischema: malformed declaration in schema %q: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("apischema: malformed declaration %q in schema %q: %s", e.Field, e.Schema, e.Reason)
}

// Code returns the stable error tag for this failure class.
func (e *MalformedDeclarationError) Code() string { return CodeMalformedDeclaration }

// UnresolvedOptionValueError reports an option value that cannot be reduced
// to a concrete literal at compile time, such as a function, a channel or
// an arbitrary struct. Deferred evaluation is rejected, never attempted.
type UnresolvedOptionValueError struct {
	Schema string
	Field  string
	Option string
	Value  any
}

func (e *UnresolvedOptionValueError) Error() string {
	return fmt.Sprintf("apischema: option %q of field %q in schema %q does not resolve to a literal (got %T)",
		e.Option, e.Field, e.Schema, e.Value)
}

func (e *UnresolvedOptionValueError) Code() string { return CodeUnresolvedOptionValue }

// UnsupportedSubtypeError reports an array element type outside the
// supported set (string, integer, object).
type UnsupportedSubtypeError struct {
	Schema  string
	Field   string
	Subtype FieldType
}

func (e *UnsupportedSubtypeError) Error() string {
	return fmt.Sprintf("apischema: field %q in schema %q declares unsupported array subtype %q (want string, integer or object)",
		e.Field, e.Schema, e.Subtype)
}

func (e *UnsupportedSubtypeError) Code() string { return CodeUnsupportedSubtype }

// DecimalValueNotAllowedError reports an arbitrary-precision numeric
// (big.Int, big.Float, big.Rat) supplied for a documentation-facing option.
// Those options are serialized into the published contract, which cannot
// represent arbitrary precision faithfully.
type DecimalValueNotAllowedError struct {
	Schema string
	Field  string
	Option string
}

func (e *DecimalValueNotAllowedError) Error() string {
	return fmt.Sprintf("apischema: option %q of field %q in schema %q carries an arbitrary-precision value; use a plain literal",
		e.Option, e.Field, e.Schema)
}

func (e *DecimalValueNotAllowedError) Code() string { return CodeDecimalValueNotAllowed }

// UnknownSchemaReferenceError reports an embed whose referenced schema is
// not in compiled state: never compiled, or still compiling. Referenced
// schemas must be compiled before their embedders.
type UnknownSchemaReferenceError struct {
	Schema string
	Field  string
	Ref    string
}

func (e *UnknownSchemaReferenceError) Error() string {
	return fmt.Sprintf("apischema: field %q in schema %q embeds %q, which is not compiled yet",
		e.Field, e.Schema, e.Ref)
}

func (e *UnknownSchemaReferenceError) Code() string { return CodeUnknownSchemaReference }

// SchemaNotFoundError reports a registry lookup for a name that was never
// compiled.
type SchemaNotFoundError struct {
	Name string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("apischema: schema %q not found in registry", e.Name)
}

func (e *SchemaNotFoundError) Code() string { return CodeSchemaNotFound }
