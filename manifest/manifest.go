// Package manifest loads schema declaration blocks from YAML documents and
// compiles them in file order. Because compilation runs top to bottom, a
// schema may embed any schema listed above it, exactly as with
// code-defined declarations.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/apischema"
)

// Manifest is the root of a schema definition document.
type Manifest struct {
	Schemas []SchemaDef `yaml:"schemas"`
}

// SchemaDef is one named declaration block.
type SchemaDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef is one declaration. Exactly one of Type, EmbedsOne or
// EmbedsMany applies; Mode selects requiredness for typed fields and
// defaults to the documentation-only form.
type FieldDef struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type,omitempty"`
	Mode       string         `yaml:"mode,omitempty"`
	EmbedsOne  string         `yaml:"embeds_one,omitempty"`
	EmbedsMany string         `yaml:"embeds_many,omitempty"`
	Options    map[string]any `yaml:"options,omitempty"`
	Fields     []FieldDef     `yaml:"fields,omitempty"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return m, nil
}

// Parse parses manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &m, nil
}

// Compile converts every schema definition to declarations and compiles
// them into reg in file order.
func (m *Manifest) Compile(reg *apischema.Registry) error {
	for _, def := range m.Schemas {
		decls, err := def.decls()
		if err != nil {
			return err
		}
		if _, err := reg.Compile(def.Name, decls); err != nil {
			return err
		}
	}
	return nil
}

func (s SchemaDef) decls() ([]apischema.Decl, error) {
	return fieldDecls(s.Name, s.Fields)
}

func fieldDecls(schema string, defs []FieldDef) ([]apischema.Decl, error) {
	decls := make([]apischema.Decl, 0, len(defs))
	for _, f := range defs {
		d, err := f.decl(schema)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (f FieldDef) decl(schema string) (apischema.Decl, error) {
	switch {
	case f.EmbedsOne != "" && f.EmbedsMany != "":
		return apischema.Decl{}, fmt.Errorf("manifest: field %q in schema %q sets both embeds_one and embeds_many", f.Name, schema)
	case f.EmbedsOne != "":
		return apischema.EmbedsOne(f.Name, f.EmbedsOne), nil
	case f.EmbedsMany != "":
		return apischema.EmbedsMany(f.Name, f.EmbedsMany), nil
	}

	opts := apischema.Options(f.Options)
	if len(f.Fields) > 0 {
		nested, err := fieldDecls(schema, f.Fields)
		if err != nil {
			return apischema.Decl{}, err
		}
		opts = opts.Merge(apischema.Fields(nested...))
	}

	typ := apischema.FieldType(f.Type)
	switch f.Mode {
	case "required":
		return apischema.Required(f.Name, typ, opts), nil
	case "optional":
		return apischema.Optional(f.Name, typ, opts), nil
	case "", "field":
		return apischema.Field(f.Name, typ, opts), nil
	}
	return apischema.Decl{}, fmt.Errorf("manifest: field %q in schema %q has unknown mode %q (want required, optional or field)", f.Name, schema, f.Mode)
}
