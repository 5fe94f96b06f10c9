package bindgen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/ir"
)

// RuntimeModule is the import path prefix of the packages generated code
// compiles against.
const RuntimeModule = "github.com/wippyai/witgen"

// Header is the first line of every generated file.
const Header = "// Code generated by witgen. DO NOT EDIT."

// Options controls one generation run.
type Options struct {
	// Package is the Go package name of the output. Defaults to the world
	// name.
	Package string
	// ImportsOnly emits declarations and host import bindings only.
	ImportsOnly bool
	// ExportsOnly emits declarations and export accessors only.
	ExportsOnly bool
}

// Result is the output of Generate.
type Result struct {
	Source      []byte
	Diagnostics []Diagnostic
	Manifest    Manifest
}

// Severity grades a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic reports an IR element bindings could not be generated for.
// Generation continues past it; the output carries a marker comment in its
// place.
type Diagnostic struct {
	Severity  Severity
	Interface string
	Function  string
	Type      string
	Message   string
}

func (d Diagnostic) String() string {
	var where []string
	if d.Interface != "" {
		where = append(where, "interface "+d.Interface)
	}
	if d.Function != "" {
		where = append(where, "function "+d.Function)
	}
	if d.Type != "" {
		where = append(where, "type "+d.Type)
	}
	if len(where) == 0 {
		return d.Severity.String() + ": " + d.Message
	}
	return d.Severity.String() + ": " + strings.Join(where, ", ") + ": " + d.Message
}

// Manifest lists what a generated file declares.
type Manifest struct {
	World   string          `json:"world"`
	Package string          `json:"package"`
	Entries []ManifestEntry `json:"entries"`
}

// ManifestEntry is one generated declaration or binding.
type ManifestEntry struct {
	Kind      string `json:"kind"`
	WIT       string `json:"wit"`
	Go        string `json:"go"`
	Interface string `json:"interface,omitempty"`
}

// Generate emits Go bindings for world. The output holds, in order, the
// world's named types, host interfaces with their registration functions,
// and typed accessors for exports.
func Generate(res *ir.Resolve, world ir.WorldID, opts Options) (*Result, error) {
	if opts.ImportsOnly && opts.ExportsOnly {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "imports-only and exports-only are mutually exclusive")
	}
	if int(world) < 0 || int(world) >= len(res.Worlds) {
		return nil, errors.NotFound(errors.PhaseGenerate, "world", fmt.Sprint(world))
	}

	w := res.World(world)
	if opts.Package == "" {
		opts.Package = strings.ToLower(camel(w.Name))
	}
	if !token.IsIdentifier(opts.Package) || token.IsKeyword(opts.Package) {
		return nil, errors.InvalidInput(errors.PhaseGenerate, fmt.Sprintf("invalid package name %q", opts.Package))
	}

	g := newGenerator(res, w, opts)
	src, err := g.run()
	if err != nil {
		return nil, err
	}

	Logger().Debug("generated bindings",
		zap.String("world", w.QualifiedName()),
		zap.Int("types", len(g.decls)),
		zap.Int("bytes", len(src)),
		zap.Int("diagnostics", len(g.diags)))

	return &Result{Source: src, Diagnostics: g.diags, Manifest: g.manifest}, nil
}

// generator holds the state of one run. Nothing in it outlives Generate.
type generator struct {
	res   *ir.Resolve
	world *ir.World
	opts  Options

	names *namer
	decls map[ir.TypeID]*decl
	order []ir.TypeID
	bad   map[ir.TypeID]string

	buf      bytes.Buffer
	diags    []Diagnostic
	manifest Manifest
}

func newGenerator(res *ir.Resolve, w *ir.World, opts Options) *generator {
	return &generator{
		res:   res,
		world: w,
		opts:  opts,
		names: newNamer(),
		decls: map[ir.TypeID]*decl{},
		bad:   map[ir.TypeID]string{},
		manifest: Manifest{
			World:   w.QualifiedName(),
			Package: opts.Package,
		},
	}
}

func (g *generator) run() ([]byte, error) {
	g.order = g.collect()
	g.assignNames()

	g.header()
	g.emitTypes()
	if !g.opts.ExportsOnly {
		g.emitImports()
	}
	if !g.opts.ImportsOnly {
		g.emitExports()
	}
	return g.format()
}

func (g *generator) header() {
	g.p("%s", Header)
	g.p("")
	g.p("// Package %s holds bindings for the world %q.", g.opts.Package, g.world.QualifiedName())
	g.p("package %s", g.opts.Package)
	g.p("")
	g.p("import (")
	for _, path := range []string{"context", "strconv", "strings"} {
		g.p("%q", path)
	}
	g.p("")
	for _, pkg := range []string{"codec", "linker", "value"} {
		g.p("%q", RuntimeModule+"/"+pkg)
	}
	g.p(")")
}

// p writes one line of output.
func (g *generator) p(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// marker writes a comment standing in for something that was not generated.
func (g *generator) marker(format string, args ...any) {
	g.p("")
	g.p("// witgen: "+format, args...)
}

func (g *generator) diag(d Diagnostic) {
	g.diags = append(g.diags, d)
	Logger().Warn("bindgen diagnostic",
		zap.String("interface", d.Interface),
		zap.String("function", d.Function),
		zap.String("type", d.Type),
		zap.String("message", d.Message))
}

func (g *generator) record(kind, wit, goName, iface string) {
	g.manifest.Entries = append(g.manifest.Entries, ManifestEntry{Kind: kind, WIT: wit, Go: goName, Interface: iface})
}

// format drops unused imports and gofmts the buffer.
func (g *generator) format() ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "bindings.go", g.buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "parse generated source")
	}
	var unused []string
	for _, spec := range file.Imports {
		if path := strings.Trim(spec.Path.Value, `"`); !astutil.UsesImport(file, path) {
			unused = append(unused, path)
		}
	}
	for _, path := range unused {
		astutil.DeleteImport(fset, file, path)
	}
	var out bytes.Buffer
	if err := format.Node(&out, fset, file); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "format generated source")
	}
	return out.Bytes(), nil
}
