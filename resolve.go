package apischema

import "github.com/reoring/apischema/docschema"

// resolveEmbed splices a previously compiled schema into an embedding
// position. The referenced name must be in compiled state right now:
// compile order is strictly "referenced schema first", which makes forward
// references and cycles unrepresentable. A name that is mid-compilation
// (including the embedding schema itself) is treated the same as an
// unknown one.
func resolveEmbed(schema string, f fieldSpec, reg *Registry) (*docschema.Schema, FieldRule, error) {
	target, ok := reg.compiled(f.ref)
	if !ok {
		return nil, FieldRule{}, &UnknownSchemaReferenceError{Schema: schema, Field: f.name, Ref: f.ref}
	}

	// Clone so the embedder owns its copy; recompiling the referenced
	// schema later must not reach into trees already spliced.
	tree := target.doc.Clone()
	rules := cloneRules(target.desc.Fields)

	switch f.kind {
	case DeclEmbedsOne:
		rule := FieldRule{Name: f.name, Type: TypeObject, Fields: rules}
		return tree, rule, nil
	default: // DeclEmbedsMany
		rule := FieldRule{Name: f.name, Type: ArrayOf(TypeObject), Elem: TypeObject, Fields: rules}
		node := &docschema.Schema{Type: "array", Items: tree}
		return node, rule, nil
	}
}
