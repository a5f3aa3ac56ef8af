package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/reoring/apischema"
	"github.com/reoring/apischema/manifest"
	"github.com/reoring/apischema/openapi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "compile":
		compileCmd(os.Args[2:])
	case "dump":
		dumpCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "apischema CLI\n\nUsage:\n  apischema compile -manifest schemas.yaml [-o out.json] [-format json|yaml] [-title T] [-api-version V] [-v]\n  apischema dump -manifest schemas.yaml [schema ...]\n\nNotes:\n  - compile emits an OpenAPI document with every compiled schema under components/schemas.\n  - dump prints compiled artifacts for inspection.")
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var (
		manifestPath = fs.String("manifest", "", "path to the schema manifest")
		out          = fs.String("o", "", "output filename (default: stdout)")
		format       = fs.String("format", "json", "output format: json or yaml")
		title        = fs.String("title", "API", "document title")
		version      = fs.String("api-version", "0.1.0", "document version (semantic versioning)")
		verbose      = fs.Bool("v", false, "enable verbose logs")
	)
	_ = fs.Parse(args)
	if *manifestPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	reg := compileManifest(*manifestPath, *verbose)

	doc, err := openapi.NewBuilder(openapi.Info{Title: *title, Version: *version}).
		Components(reg).
		Build()
	if err != nil {
		fatalf("build document: %v", err)
	}

	var data []byte
	switch *format {
	case "json":
		data, err = doc.JSON()
	case "yaml":
		data, err = doc.YAML()
	default:
		fatalf("unknown format %q (want json or yaml)", *format)
	}
	if err != nil {
		fatalf("render document: %v", err)
	}

	if *out == "" {
		fmt.Println(string(data))
		return
	}
	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir: %v", err)
		}
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

func dumpCmd(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	var (
		manifestPath = fs.String("manifest", "", "path to the schema manifest")
		verbose      = fs.Bool("v", false, "enable verbose logs")
	)
	_ = fs.Parse(args)
	if *manifestPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	reg := compileManifest(*manifestPath, *verbose)

	schemas := reg.Schemas()
	if names := fs.Args(); len(names) > 0 {
		schemas = make([]*apischema.CompiledSchema, 0, len(names))
		for _, name := range names {
			s, err := reg.Lookup(name)
			if err != nil {
				fatalf("%v", err)
			}
			schemas = append(schemas, s)
		}
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	for _, s := range schemas {
		fmt.Printf("==== %s ====\n", s.Name())
		cfg.Dump(s.Validation())
		cfg.Dump(s.Documentation())
	}
}

func compileManifest(path string, verbose bool) *apischema.Registry {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	m, err := manifest.Load(path)
	if err != nil {
		fatalf("%v", err)
	}
	reg := apischema.NewRegistry(apischema.WithLogger(logger))
	if err := m.Compile(reg); err != nil {
		fatalf("compile: %v", err)
	}
	return reg
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
