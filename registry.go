package apischema

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/reoring/apischema/docschema"
)

// CompiledSchema is the immutable artifact for one named declaration
// block: the documentation tree and the validation descriptor, produced by
// the same pass over the same declarations.
type CompiledSchema struct {
	name       string
	doc        *docschema.Schema
	desc       ValidationDescriptor
	fieldCount int
	compiledAt time.Time
	elapsed    time.Duration
}

// Name returns the registry name the schema compiled under.
func (s *CompiledSchema) Name() string { return s.name }

// Documentation returns a deep copy of the documentation tree. Callers may
// mutate the copy freely; the registry's artifact never changes.
func (s *CompiledSchema) Documentation() *docschema.Schema { return s.doc.Clone() }

// Validation returns a deep copy of the engine-facing descriptor.
func (s *CompiledSchema) Validation() ValidationDescriptor { return s.desc.clone() }

// FieldCount returns the number of top-level declarations, embeds and
// documentation-only fields included.
func (s *CompiledSchema) FieldCount() int { return s.fieldCount }

// CompiledAt returns when compilation finished.
func (s *CompiledSchema) CompiledAt() time.Time { return s.compiledAt }

// CompileDuration returns how long the compilation pass took.
func (s *CompiledSchema) CompileDuration() time.Duration { return s.elapsed }

type schemaState int

const (
	stateCompiling schemaState = iota // Mid-pipeline; not referenceable.
	stateCompiled                     // Referenceable and served.
)

type registryEntry struct {
	state  schemaState
	schema *CompiledSchema
}

// Registry holds compiled schemas by name. It is populated once at startup
// on a single goroutine, in dependency order, and is immutable afterwards;
// reads after that point need no locking, so the type carries no mutex.
type Registry struct {
	logger  zerolog.Logger
	entries map[string]*registryEntry
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger attaches a structured logger. Compile events log at debug
// level; the default logger discards everything.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger:  zerolog.Nop(),
		entries: make(map[string]*registryEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile runs the full pipeline for one declaration block and stores the
// result under name. Compiling an existing name replaces the prior entry;
// a failed recompile leaves the prior entry in place. Compilation is
// deterministic: the same declarations produce deeply equal artifacts.
func (r *Registry) Compile(name string, decls []Decl) (*CompiledSchema, error) {
	return r.CompileWith(name, decls, nil)
}

// CompileWith compiles with per-field option overlays. Override options
// take precedence over declared options, which take precedence over
// type-level defaults. Overrides naming unknown fields are ignored.
func (r *Registry) CompileWith(name string, decls []Decl, overrides map[string]Options) (*CompiledSchema, error) {
	if name == "" {
		return nil, &MalformedDeclarationError{Schema: name, Reason: "schema name is empty"}
	}

	start := time.Now()
	prev := r.entries[name]
	// While this name compiles it must not resolve as an embed target,
	// including from its own declarations.
	r.entries[name] = &registryEntry{state: stateCompiling}

	schema, err := r.compile(name, decls, overrides)
	if err != nil {
		if prev != nil {
			r.entries[name] = prev
		} else {
			delete(r.entries, name)
		}
		r.logger.Error().Err(err).Str("schema", name).Msg("schema compilation failed")
		return nil, err
	}

	schema.compiledAt = time.Now()
	schema.elapsed = time.Since(start)
	r.entries[name] = &registryEntry{state: stateCompiled, schema: schema}
	if prev != nil {
		r.logger.Debug().Str("schema", name).Msg("replacing compiled schema")
	}
	r.logger.Debug().
		Str("schema", name).
		Int("fields", schema.fieldCount).
		Dur("elapsed", schema.elapsed).
		Msg("schema compiled")
	return schema, nil
}

// MustCompile is Compile for startup paths where a failure should halt the
// process.
func (r *Registry) MustCompile(name string, decls []Decl) *CompiledSchema {
	s, err := r.Compile(name, decls)
	if err != nil {
		panic(err)
	}
	return s
}

func (r *Registry) compile(name string, decls []Decl, overrides map[string]Options) (*CompiledSchema, error) {
	specs, err := parseDecls(name, decls)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		applyOverrides(specs, overrides)
	}
	doc, rules, err := compileBlock(name, specs, r)
	if err != nil {
		return nil, err
	}
	return &CompiledSchema{
		name:       name,
		doc:        doc,
		desc:       ValidationDescriptor{Schema: name, Fields: rules},
		fieldCount: len(specs),
	}, nil
}

// applyOverrides overlays caller options onto top-level fields by name.
func applyOverrides(specs []fieldSpec, overrides map[string]Options) {
	for i := range specs {
		layer, ok := overrides[specs[i].name]
		if !ok {
			continue
		}
		specs[i].options = mergeOptions(specs[i].options, layer)
	}
}

// Lookup returns the compiled schema for name.
func (r *Registry) Lookup(name string) (*CompiledSchema, error) {
	s, ok := r.compiled(name)
	if !ok {
		return nil, &SchemaNotFoundError{Name: name}
	}
	return s, nil
}

// Schemas returns every compiled schema, sorted by name.
func (r *Registry) Schemas() []*CompiledSchema {
	out := make([]*CompiledSchema, 0, len(r.entries))
	for _, e := range r.entries {
		if e.state == stateCompiled {
			out = append(out, e.schema)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Len returns the number of compiled schemas.
func (r *Registry) Len() int {
	n := 0
	for _, e := range r.entries {
		if e.state == stateCompiled {
			n++
		}
	}
	return n
}

// compiled resolves name to a schema in compiled state.
func (r *Registry) compiled(name string) (*CompiledSchema, bool) {
	e, ok := r.entries[name]
	if !ok || e.state != stateCompiled {
		return nil, false
	}
	return e.schema, true
}
