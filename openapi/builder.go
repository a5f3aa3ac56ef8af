package openapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/apischema"
	"github.com/reoring/apischema/docschema"
)

// ContentTypeJSON is the media type every schema-bearing body is published
// under.
const ContentTypeJSON = "application/json"

// CallbackExpression is the runtime expression callback operations render
// under: the callback target URL is read from the triggering request
// body's callback_url field.
const CallbackExpression = "{$request.body#/callback_url}"

// Endpoint binds one HTTP action to compiled schema output: an optional
// request body schema, response schemas by status code, and callback
// schemas by name.
type Endpoint struct {
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	OperationID string
	Request     *docschema.Schema
	Responses   map[int]*docschema.Schema
	Callbacks   map[string]*docschema.Schema
}

// Builder accumulates endpoints and component schemas into a Document.
// Errors are reported once, from Build; like schema compilation, a bad
// document definition is a startup-fatal configuration defect.
type Builder struct {
	info      Info
	endpoints []Endpoint
	comps     map[string]*Schema
}

// NewBuilder starts a document with the given metadata.
func NewBuilder(info Info) *Builder {
	return &Builder{info: info, comps: make(map[string]*Schema)}
}

// Add appends an endpoint.
func (b *Builder) Add(e Endpoint) *Builder {
	b.endpoints = append(b.endpoints, e)
	return b
}

// Component registers one documentation tree under components/schemas.
func (b *Builder) Component(name string, doc *docschema.Schema) *Builder {
	b.comps[name] = Convert(doc)
	return b
}

// Components registers every compiled schema in the registry under
// components/schemas, keyed by registry name.
func (b *Builder) Components(reg *apischema.Registry) *Builder {
	for _, s := range reg.Schemas() {
		b.comps[s.Name()] = Convert(s.Documentation())
	}
	return b
}

// Build assembles and checks the document. Info.Title must be set and
// Info.Version must parse as semantic versioning.
func (b *Builder) Build() (*Document, error) {
	if b.info.Title == "" {
		return nil, fmt.Errorf("openapi: info title is required")
	}
	if _, err := semver.NewVersion(b.info.Version); err != nil {
		return nil, fmt.Errorf("openapi: info version %q is not semantic versioning: %w", b.info.Version, err)
	}

	doc := &Document{
		OpenAPI: SpecVersion,
		Info:    b.info,
		Paths:   make(map[string]PathItem, len(b.endpoints)),
	}
	for _, e := range b.endpoints {
		if e.Path == "" {
			return nil, fmt.Errorf("openapi: endpoint %q has no path", e.Summary)
		}
		item := doc.Paths[e.Path]
		slot, err := operationSlot(&item, e.Method)
		if err != nil {
			return nil, err
		}
		if *slot != nil {
			return nil, fmt.Errorf("openapi: duplicate operation %s %s", strings.ToUpper(e.Method), e.Path)
		}
		*slot = buildOperation(e)
		doc.Paths[e.Path] = item
	}
	if len(b.comps) > 0 {
		doc.Components = &Components{Schemas: b.comps}
	}
	return doc, nil
}

func operationSlot(item *PathItem, method string) (**Operation, error) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return &item.Get, nil
	case http.MethodPut:
		return &item.Put, nil
	case http.MethodPost:
		return &item.Post, nil
	case http.MethodPatch:
		return &item.Patch, nil
	case http.MethodDelete:
		return &item.Delete, nil
	}
	return nil, fmt.Errorf("openapi: unsupported method %q", method)
}

func buildOperation(e Endpoint) *Operation {
	op := &Operation{
		Tags:        e.Tags,
		Summary:     e.Summary,
		Description: e.Description,
		OperationID: e.OperationID,
		Responses:   make(map[string]Response, len(e.Responses)),
	}
	if e.Request != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content:  jsonContent(e.Request),
		}
	}
	for status, schema := range e.Responses {
		resp := Response{Description: statusDescription(status)}
		if schema != nil {
			resp.Content = jsonContent(schema)
		}
		op.Responses[strconv.Itoa(status)] = resp
	}
	if len(op.Responses) == 0 {
		// The responses object must not be empty.
		op.Responses["200"] = Response{Description: statusDescription(http.StatusOK)}
	}
	for name, schema := range e.Callbacks {
		if op.Callbacks == nil {
			op.Callbacks = make(map[string]Callback, len(e.Callbacks))
		}
		op.Callbacks[name] = Callback{
			CallbackExpression: {
				Post: &Operation{
					RequestBody: &RequestBody{Required: true, Content: jsonContent(schema)},
					Responses: map[string]Response{
						"200": {Description: statusDescription(http.StatusOK)},
					},
				},
			},
		}
	}
	return op
}

func jsonContent(doc *docschema.Schema) map[string]MediaType {
	return map[string]MediaType{
		ContentTypeJSON: {Schema: Convert(doc)},
	}
}

func statusDescription(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "response"
}

// JSON serializes the document, indented. The encoder sorts map keys, so
// output is deterministic.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML serializes the document by roundtripping through JSON, so key
// casing follows the json struct tags rather than yaml's lowercasing.
func (d *Document) YAML() ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}
