// Package openapi assembles compiled schemas into OpenAPI 3.0 documents.
//
// The compiler's documentation trees carry requiredness as a per-node
// boolean; OpenAPI wants parent-level required arrays. Convert performs
// that lowering, and Builder wires converted schemas into paths,
// operations, callbacks and components.
package openapi

// SpecVersion is the OpenAPI version every built document declares.
const SpecVersion = "3.0.3"

// Document is the root OpenAPI object.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`
}

// Info carries document metadata. Version must parse as semantic
// versioning; Build enforces this.
type Info struct {
	Title       string   `json:"title"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
	License     *License `json:"license,omitempty"`
}

// Contact names the document owner.
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License names the API license.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// PathItem holds the operations available on one path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Patch  *Operation `json:"patch,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation is a single API operation on a path.
type Operation struct {
	Tags        []string            `json:"tags,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
	Callbacks   map[string]Callback `json:"callbacks,omitempty"`
}

// RequestBody describes an operation's request payload.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required,omitempty"`
	Content     map[string]MediaType `json:"content"`
}

// MediaType binds a schema to a content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Response describes one response status.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Callback maps runtime expressions to the out-of-band requests an API
// makes back to the caller.
type Callback map[string]PathItem

// Components holds the reusable schemas section.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// Schema is the OpenAPI rendering of a documentation node: requiredness
// lives in the parent's Required list, not on the node.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Example     any                `json:"example,omitempty"`
	Default     any                `json:"default,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}
