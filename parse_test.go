package apischema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/apischema"
)

func TestCompile_MalformedDeclarations(t *testing.T) {
	cases := []struct {
		name   string
		decls  []apischema.Decl
		reason string
	}{
		{
			name:   "empty block",
			decls:  nil,
			reason: "empty",
		},
		{
			name:   "missing field name",
			decls:  []apischema.Decl{apischema.Required("", apischema.TypeString)},
			reason: "missing a field name",
		},
		{
			name: "duplicate field names",
			decls: []apischema.Decl{
				apischema.Required("x", apischema.TypeString),
				apischema.Optional("x", apischema.TypeInteger),
			},
			reason: "more than once",
		},
		{
			name:   "unrecognized type",
			decls:  []apischema.Decl{apischema.Required("x", apischema.FieldType("frobnicate"))},
			reason: "unrecognized type",
		},
		{
			name:   "embed without reference",
			decls:  []apischema.Decl{apischema.EmbedsOne("data", "")},
			reason: "referenced schema name",
		},
		{
			name:   "enum without values",
			decls:  []apischema.Decl{apischema.Required("role", apischema.TypeEnum)},
			reason: "values list",
		},
		{
			name: "enum values not a list",
			decls: []apischema.Decl{
				apischema.Required("role", apischema.TypeEnum, apischema.Options{"values": "admin"}),
			},
			reason: "must hold a list",
		},
		{
			name: "enum values empty",
			decls: []apischema.Decl{
				apischema.Required("role", apischema.TypeEnum, apischema.Options{"values": []string{}}),
			},
			reason: "empty",
		},
		{
			name:   "array of objects without block",
			decls:  []apischema.Decl{apischema.Required("items", apischema.ArrayOf(apischema.TypeObject))},
			reason: "inline field block",
		},
		{
			name: "fields block on scalar",
			decls: []apischema.Decl{
				apischema.Required("s", apischema.TypeString, apischema.Fields(
					apischema.Required("x", apischema.TypeString),
				)),
			},
			reason: "not valid for type",
		},
		{
			name: "fields option of wrong shape",
			decls: []apischema.Decl{
				apischema.Required("o", apischema.TypeObject, apischema.Options{"fields": "nope"}),
			},
			reason: "declaration list",
		},
		{
			name: "duplicate names inside nested block",
			decls: []apischema.Decl{
				apischema.Required("o", apischema.TypeObject, apischema.Fields(
					apischema.Required("x", apischema.TypeString),
					apischema.Required("x", apischema.TypeString),
				)),
			},
			reason: "more than once",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := apischema.NewRegistry()
			_, err := reg.Compile("Sample", tc.decls)
			var target *apischema.MalformedDeclarationError
			if !errors.As(err, &target) {
				t.Fatalf("err = %v, want MalformedDeclarationError", err)
			}
			if !strings.Contains(target.Reason, tc.reason) {
				t.Fatalf("reason = %q, want substring %q", target.Reason, tc.reason)
			}
		})
	}
}

func TestCompile_EmptySchemaName(t *testing.T) {
	reg := apischema.NewRegistry()
	_, err := reg.Compile("", []apischema.Decl{apischema.Required("x", apischema.TypeString)})
	var target *apischema.MalformedDeclarationError
	if !errors.As(err, &target) {
		t.Fatalf("err = %v, want MalformedDeclarationError", err)
	}
}

func TestCompile_OrderIsPreserved(t *testing.T) {
	reg := apischema.NewRegistry()
	s, err := reg.Compile("Ordered", []apischema.Decl{
		apischema.Required("zebra", apischema.TypeString),
		apischema.Required("apple", apischema.TypeString),
		apischema.Optional("mango", apischema.TypeInteger),
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	desc := s.Validation()
	var got []string
	for _, r := range desc.Fields {
		got = append(got, r.Name)
	}
	want := []string{"zebra", "apple", "mango"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field order = %v, want %v", got, want)
		}
	}
}
