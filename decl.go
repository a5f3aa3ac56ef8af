package apischema

// DeclKind tags the variant of a declaration.
type DeclKind int

const (
	DeclRequired   DeclKind = iota // Field must be present in validated input.
	DeclOptional                   // Field is validated when present.
	DeclPlain                      // Documentation-only field.
	DeclEmbedsOne                  // Splice a compiled schema as a nested object.
	DeclEmbedsMany                 // Splice a compiled schema as an array of objects.
)

func (k DeclKind) String() string {
	switch k {
	case DeclRequired:
		return "required"
	case DeclOptional:
		return "optional"
	case DeclPlain:
		return "field"
	case DeclEmbedsOne:
		return "embeds_one"
	case DeclEmbedsMany:
		return "embeds_many"
	}
	return "unknown"
}

// Decl is one field declaration in a schema definition block. Field
// declarations carry a semantic type and options; embed declarations carry
// the name of a previously compiled schema instead. Declaration order is
// significant and preserved through compilation.
type Decl struct {
	Kind    DeclKind
	Name    string
	Type    FieldType
	Options Options
	Ref     string
}

// Required declares a field that must be present in validated input.
// Multiple option maps are overlaid left to right.
func Required(name string, t FieldType, opts ...Options) Decl {
	return Decl{Kind: DeclRequired, Name: name, Type: t, Options: mergeOptions(opts...)}
}

// Optional declares a field that is validated only when present.
func Optional(name string, t FieldType, opts ...Options) Decl {
	return Decl{Kind: DeclOptional, Name: name, Type: t, Options: mergeOptions(opts...)}
}

// Field declares a documentation-only field. It appears in the published
// schema with required=false and is excluded from the validation
// descriptor.
func Field(name string, t FieldType, opts ...Options) Decl {
	return Decl{Kind: DeclPlain, Name: name, Type: t, Options: mergeOptions(opts...)}
}

// EmbedsOne splices the documentation tree of a previously compiled schema
// under name. The referenced schema must already be compiled in the same
// registry when the embedding schema compiles.
func EmbedsOne(name, ref string) Decl {
	return Decl{Kind: DeclEmbedsOne, Name: name, Ref: ref}
}

// EmbedsMany splices a previously compiled schema as an array of objects
// under name.
func EmbedsMany(name, ref string) Decl {
	return Decl{Kind: DeclEmbedsMany, Name: name, Ref: ref}
}

// Fields wraps an inline nested declaration list as an option map, for use
// with object, map and array-of-object fields:
//
//	Required("items", ArrayOf(TypeObject), Fields(
//	    Required("sku", TypeString),
//	    Optional("qty", TypeInteger),
//	))
func Fields(decls ...Decl) Options {
	return Options{OptFields: decls}
}
