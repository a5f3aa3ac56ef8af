package openapi_test

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/reoring/apischema"
	"github.com/reoring/apischema/docschema"
	"github.com/reoring/apischema/openapi"
)

func petSchema(t *testing.T) *apischema.CompiledSchema {
	t.Helper()
	reg := apischema.NewRegistry()
	s, err := reg.Compile("Pet", []apischema.Decl{
		apischema.Required("name", apischema.TypeString),
		apischema.Optional("age", apischema.TypeInteger),
		apischema.Required("kind", apischema.TypeEnum, apischema.Options{"values": []string{"cat", "dog"}}),
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return s
}

func TestConvert_HoistsRequiredIntoSortedList(t *testing.T) {
	doc := petSchema(t).Documentation()
	got := openapi.Convert(doc)

	if !reflect.DeepEqual(got.Required, []string{"kind", "name"}) {
		t.Fatalf("required = %v, want [kind name]", got.Required)
	}
	for name, child := range got.Properties {
		if len(child.Required) != 0 {
			t.Fatalf("leaf %q kept a required list: %v", name, child.Required)
		}
	}
	if got.Properties["kind"].Enum[0] != "cat" {
		t.Fatalf("enum lost in conversion: %+v", got.Properties["kind"])
	}
}

func TestConvert_NestedHoisting(t *testing.T) {
	reg := apischema.NewRegistry()
	s, err := reg.Compile("Order", []apischema.Decl{
		apischema.Required("lines", apischema.ArrayOf(apischema.TypeObject), apischema.Fields(
			apischema.Required("sku", apischema.TypeString),
			apischema.Optional("note", apischema.TypeString),
		)),
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := openapi.Convert(s.Documentation())

	items := got.Properties["lines"].Items
	if items == nil {
		t.Fatalf("missing items")
	}
	if !reflect.DeepEqual(items.Required, []string{"sku"}) {
		t.Fatalf("nested required = %v, want [sku]", items.Required)
	}
}

func TestBuilder_Document(t *testing.T) {
	pet := petSchema(t)

	doc, err := openapi.NewBuilder(openapi.Info{Title: "Pet API", Version: "1.2.3"}).
		Add(openapi.Endpoint{
			Method:      "POST",
			Path:        "/pets",
			Summary:     "Create a pet",
			OperationID: "createPet",
			Request:     pet.Documentation(),
			Responses: map[int]*docschema.Schema{
				201: pet.Documentation(),
				422: nil,
			},
			Callbacks: map[string]*docschema.Schema{
				"petCreated": pet.Documentation(),
			},
		}).
		Add(openapi.Endpoint{Method: "GET", Path: "/pets"}).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if doc.OpenAPI != openapi.SpecVersion {
		t.Fatalf("openapi = %q", doc.OpenAPI)
	}

	post := doc.Paths["/pets"].Post
	if post == nil {
		t.Fatalf("post operation missing")
	}
	if post.RequestBody == nil || !post.RequestBody.Required {
		t.Fatalf("request body: %+v", post.RequestBody)
	}
	media := post.RequestBody.Content[openapi.ContentTypeJSON]
	if media.Schema == nil || media.Schema.Type != "object" {
		t.Fatalf("request schema: %+v", media.Schema)
	}

	if got := post.Responses["201"].Description; got != "Created" {
		t.Fatalf("201 description = %q", got)
	}
	if got := post.Responses["422"].Description; got != "Unprocessable Entity" {
		t.Fatalf("422 description = %q", got)
	}
	if post.Responses["422"].Content != nil {
		t.Fatalf("bodyless response should have no content")
	}

	cb, ok := post.Callbacks["petCreated"]
	if !ok {
		t.Fatalf("callback missing")
	}
	item, ok := cb[openapi.CallbackExpression]
	if !ok || item.Post == nil || item.Post.RequestBody == nil {
		t.Fatalf("callback shape: %+v", cb)
	}

	get := doc.Paths["/pets"].Get
	if get == nil {
		t.Fatalf("get operation missing")
	}
	if got := get.Responses["200"].Description; got != "OK" {
		t.Fatalf("default response = %q", got)
	}
}

func TestBuilder_ComponentsFromRegistry(t *testing.T) {
	reg := apischema.NewRegistry()
	for _, name := range []string{"Alpha", "Bravo"} {
		if _, err := reg.Compile(name, []apischema.Decl{
			apischema.Required("x", apischema.TypeString),
		}); err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
	}

	doc, err := openapi.NewBuilder(openapi.Info{Title: "API", Version: "0.1.0"}).
		Components(reg).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) != 2 {
		t.Fatalf("components: %+v", doc.Components)
	}
	alpha := doc.Components.Schemas["Alpha"]
	if alpha == nil || !reflect.DeepEqual(alpha.Required, []string{"x"}) {
		t.Fatalf("component not converted: %+v", alpha)
	}
}

func TestBuilder_Defects(t *testing.T) {
	cases := []struct {
		name  string
		build func() (*openapi.Document, error)
	}{
		{
			name: "missing title",
			build: func() (*openapi.Document, error) {
				return openapi.NewBuilder(openapi.Info{Version: "1.0.0"}).Build()
			},
		},
		{
			name: "bad version",
			build: func() (*openapi.Document, error) {
				return openapi.NewBuilder(openapi.Info{Title: "API", Version: "not-a-version"}).Build()
			},
		},
		{
			name: "unsupported method",
			build: func() (*openapi.Document, error) {
				return openapi.NewBuilder(openapi.Info{Title: "API", Version: "1.0.0"}).
					Add(openapi.Endpoint{Method: "TELEPORT", Path: "/x"}).
					Build()
			},
		},
		{
			name: "missing path",
			build: func() (*openapi.Document, error) {
				return openapi.NewBuilder(openapi.Info{Title: "API", Version: "1.0.0"}).
					Add(openapi.Endpoint{Method: "GET"}).
					Build()
			},
		},
		{
			name: "duplicate operation",
			build: func() (*openapi.Document, error) {
				return openapi.NewBuilder(openapi.Info{Title: "API", Version: "1.0.0"}).
					Add(openapi.Endpoint{Method: "GET", Path: "/x"}).
					Add(openapi.Endpoint{Method: "get", Path: "/x"}).
					Build()
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.build(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDocument_YAMLPreservesKeyCasing(t *testing.T) {
	doc, err := openapi.NewBuilder(openapi.Info{Title: "API", Version: "1.0.0"}).
		Add(openapi.Endpoint{Method: "GET", Path: "/x", OperationID: "getX"}).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := doc.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "operationId: getX") {
		t.Fatalf("operationId casing lost:\n%s", text)
	}
	if !strings.Contains(text, `openapi: 3.0.3`) {
		t.Fatalf("missing openapi version:\n%s", text)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(out, &tree); err != nil {
		t.Fatalf("yaml not parseable: %v", err)
	}
	if _, ok := tree["paths"]; !ok {
		t.Fatalf("paths missing: %v", tree)
	}
}

func TestDocument_JSONDeterministic(t *testing.T) {
	build := func() []byte {
		doc, err := openapi.NewBuilder(openapi.Info{Title: "API", Version: "1.0.0"}).
			Add(openapi.Endpoint{Method: "GET", Path: "/b"}).
			Add(openapi.Endpoint{Method: "GET", Path: "/a"}).
			Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		b, err := doc.JSON()
		if err != nil {
			t.Fatalf("json: %v", err)
		}
		return b
	}
	first := build()
	for i := 0; i < 5; i++ {
		if string(build()) != string(first) {
			t.Fatalf("document serialization unstable")
		}
	}
}
