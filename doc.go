// Package apischema compiles ordered, declarative field definitions into two
// artifacts that stay consistent by construction:
//
//   - a ValidationDescriptor handed to a request-validation engine (type,
//     requiredness, constraints; documentation-only options stripped)
//   - a documentation Schema tree (OpenAPI-compatible) published as the
//     machine-readable API contract
//
// Design policy:
//
//   - The declaration surface, the compiler pipeline and the registry live in
//     the root package, one file per pipeline stage.
//   - The documentation node type lives under docschema/, the OpenAPI document
//     builder under openapi/, YAML manifest loading under manifest/, Prometheus
//     collectors under metrics/, and the CLI under cmd/apischema.
//   - Compilation happens once at startup, in dependency order, on a single
//     goroutine. Compiled schemas and the Registry are immutable afterwards and
//     safe for concurrent reads without locking.
//   - Compile failures are configuration defects: they surface as typed errors
//     (or a panic via MustCompile) before the service starts taking traffic.
//
// Typical usage:
//
//	reg := apischema.NewRegistry()
//	reg.MustCompile("Address", []apischema.Decl{
//	    apischema.Required("street", apischema.TypeString),
//	    apischema.Optional("zip", apischema.TypeString),
//	})
//	user := reg.MustCompile("User", []apischema.Decl{
//	    apischema.Required("id", apischema.TypeUUID),
//	    apischema.EmbedsOne("address", "Address"),
//	})
//
//	doc := user.Documentation() // *docschema.Schema for the published contract
//	desc := user.Validation()   // ValidationDescriptor for the engine
package apischema
