package bindgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/ir"
)

func calculator() (*ir.Resolve, ir.WorldID) {
	b := ir.NewBuilder()

	types := b.Interface("example:calc@0.1.0", "types")
	point := types.Type("point", &ir.Record{Fields: []ir.Field{{Name: "x", Type: ir.S32}, {Name: "y", Type: ir.S32}}})
	shape := types.Type("shape", &ir.Variant{Cases: []ir.Case{{Name: "circle", Type: ir.F64}, {Name: "none"}}})
	color := types.Type("color", &ir.Enum{Cases: []string{"red", "green", "blue"}})
	perms := types.Type("permissions", &ir.Flags{Flags: []string{"read", "write", "execute"}})
	types.Type("points", &ir.List{Elem: point})

	math := b.Interface("example:calc@0.1.0", "math")
	mpoint := math.Use("point", point)
	math.Func("divide", ir.Params("a", ir.S32, "b", ir.S32), ir.Returns(b.Result(ir.S32, ir.String)))
	math.Func("centroid", ir.Params("points", b.List(mpoint)), ir.Returns(b.Option(mpoint)))
	math.Func("div-mod", ir.Params("a", ir.U32, "b", ir.U32), ir.Results{Named: ir.Params("q", ir.U32, "r", ir.U32)})

	empty := b.Interface("example:calc@0.1.0", "empty")
	report := b.Interface("example:calc@0.1.0", "report")
	report.Func("describe", ir.Params("s", shape, "c", color), ir.Returns(ir.String))
	report.Func("allowed", nil, ir.Returns(perms))

	w := b.World("example:calc@0.1.0", "calculator").
		ImportInterface(types.ID()).
		ImportInterface(math.ID()).
		ImportFunc("log", ir.Params("msg", ir.String), ir.Results{}).
		ExportInterface(report.ID()).
		ExportInterface(empty.ID()).
		ExportFunc("run", nil, ir.Returns(color))
	return b.Resolve(), w.ID()
}

func generate(t *testing.T, res *ir.Resolve, w ir.WorldID, opts Options) (*Result, string) {
	t.Helper()
	out, err := Generate(res, w, opts)
	require.NoError(t, err)
	return out, string(out.Source)
}

// declared parses src and counts top-level type and function names.
func declared(t *testing.T, src string) (types, funcs map[string]int) {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "bindings.go", src, 0)
	require.NoError(t, err, src)

	types, funcs = map[string]int{}, map[string]int{}
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			for _, s := range d.Specs {
				if ts, ok := s.(*ast.TypeSpec); ok {
					types[ts.Name.Name]++
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil {
				funcs[d.Name.Name]++
			}
		}
	}
	return types, funcs
}

func imports(t *testing.T, src string) []string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "bindings.go", src, parser.ImportsOnly)
	require.NoError(t, err)
	var out []string
	for _, spec := range file.Imports {
		out = append(out, strings.Trim(spec.Path.Value, `"`))
	}
	return out
}

func TestGenerateCalculator(t *testing.T) {
	res, w := calculator()
	out, src := generate(t, res, w, Options{})

	assert.True(t, strings.HasPrefix(src, Header+"\n"))
	assert.Contains(t, src, "package calculator\n")
	assert.Empty(t, diagnosticsOf(out, SeverityError))

	types, funcs := declared(t, src)
	for _, name := range []string{
		"Point", "Shape", "ShapeCircle", "ShapeNone", "Color", "Permissions", "Points",
		"MathHost", "LogHost", "LogHostFunc",
	} {
		assert.Equal(t, 1, types[name], "type %s", name)
	}
	assert.NotContains(t, types, "TypesHost")

	for _, name := range []string{
		"RegisterMathHost", "RegisterLogHost",
		"ReportExports", "EmptyExports",
		"GetReportDescribe", "GetReportAllowed", "GetRun",
		"EmptyPermissions", "AllPermissions",
	} {
		assert.Equal(t, 1, funcs[name], "func %s", name)
	}

	assert.Contains(t, src, `// witgen: "math.point" re-exports "types.point"; use Point.`)
	assert.Contains(t, src, "Divide(ctx context.Context, a int32, b int32) (codec.Result[int32, string], error)")
	assert.Contains(t, src, "Centroid(ctx context.Context, points []Point) (*Point, error)")
	assert.Contains(t, src, "DivMod(ctx context.Context, a uint32, b uint32) (codec.Tuple2[uint32, uint32], error)")
	assert.Contains(t, src, "type LogHostFunc func(ctx context.Context, msg string) error")
	assert.Contains(t, src, `inst, err := l.DefineInstance("example:calc/math@0.1.0")`)
	assert.Contains(t, src, "inst := l.Root()")
	assert.Contains(t, src, "return codec.SetResult(results, 1, codec.U32, ret.F1)")

	assert.Contains(t, src, "type Permissions uint32")
	assert.Contains(t, src, "type Points = []Point")
	assert.Contains(t, src, "var PointsCodec = codec.List(PointCodec)")
	assert.Contains(t, src, `if x.X, err = codec.Field(v, "x", codec.S32); err != nil {`)
	assert.Contains(t, src, "return nil, codec.BadDiscriminant(disc, 2)")

	assert.Contains(t, src, `const EmptyInterfaceName = "example:calc/empty@0.1.0"`)
	assert.Contains(t, src, "func GetReportDescribe(inst linker.Instance) (*linker.TypedFunc[codec.Tuple2[Shape, Color], string], error)")
	assert.Contains(t, src, `return linker.Bind(exports, "describe", codec.Tuple2Of(ShapeCodec, ColorCodec), 2, codec.String, 1)`)
	assert.Contains(t, src, `return linker.Bind(inst.Exports(), "run", codec.Void, 0, ColorCodec, 1)`)

	assert.ElementsMatch(t, []string{
		"context", "strconv", "strings",
		RuntimeModule + "/codec", RuntimeModule + "/linker", RuntimeModule + "/value",
	}, imports(t, src))
}

func diagnosticsOf(r *Result, sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

func TestGenerateDeterministic(t *testing.T) {
	res, w := calculator()
	_, first := generate(t, res, w, Options{})
	for range 3 {
		_, again := generate(t, res, w, Options{})
		require.Equal(t, first, again)
	}
}

func TestGenerateOneDeclarationPerType(t *testing.T) {
	b := ir.NewBuilder()
	shared := b.Interface("ex:diamond", "shared")
	leaf := shared.Type("leaf", &ir.Record{Fields: []ir.Field{{Name: "n", Type: ir.U8}}})
	left := shared.Type("left", &ir.Record{Fields: []ir.Field{{Name: "leaf", Type: leaf}}})
	right := shared.Type("right", &ir.Variant{Cases: []ir.Case{{Name: "leaf", Type: leaf}, {Name: "many", Type: b.List(leaf)}}})

	api := b.Interface("ex:diamond", "api")
	api.Func("both", ir.Params("l", left, "r", right), ir.Returns(b.Tuple(leaf, leaf)))
	api.Func("again", ir.Params("l", b.Option(leaf)), ir.Returns(left))
	w := b.World("ex:diamond", "diamond").ImportInterface(api.ID()).ExportInterface(api.ID())

	_, src := generate(t, b.Resolve(), w.ID(), Options{})
	types, _ := declared(t, src)

	assert.Equal(t, 1, types["Leaf"])
	assert.Equal(t, 1, types["Left"])
	assert.Equal(t, 1, types["Right"])
	assert.Equal(t, 1, strings.Count(src, "var LeafCodec codec.Codec[Leaf]"))
	assert.Equal(t, 1, strings.Count(src, "func (leafCodec) Type() value.Type"))
}

func TestGenerateEmptyExport(t *testing.T) {
	b := ir.NewBuilder()
	empty := b.Interface("ex:empty@1.0.0", "nothing")
	w := b.World("ex:empty@1.0.0", "bare").ExportInterface(empty.ID())

	out, src := generate(t, b.Resolve(), w.ID(), Options{})

	assert.Empty(t, out.Diagnostics)
	assert.Contains(t, src, `const NothingInterfaceName = "ex:empty/nothing@1.0.0"`)
	assert.Contains(t, src, "func NothingExports(inst linker.Instance) (linker.Exports, error) {")
	assert.ElementsMatch(t, []string{RuntimeModule + "/linker"}, imports(t, src))
}

func TestGenerateAliases(t *testing.T) {
	b := ir.NewBuilder()
	types := b.Interface("ex:alias", "types")
	point := types.Type("point", &ir.Record{Fields: []ir.Field{{Name: "x", Type: ir.F32}}})
	types.Type("count", &ir.Alias{Target: ir.U32})

	geo := b.Interface("ex:alias", "geo")
	same := geo.Use("point", point)
	renamed := geo.Use("position", point)
	geo.Func("move", ir.Params("p", same, "to", renamed), ir.Returns(renamed))

	w := b.World("ex:alias", "alias").ImportInterface(types.ID()).ImportInterface(geo.ID())
	_, src := generate(t, b.Resolve(), w.ID(), Options{})
	types2, _ := declared(t, src)

	assert.Equal(t, 1, types2["Point"])
	assert.Equal(t, 1, types2["Position"])
	assert.Equal(t, 1, types2["Count"])
	assert.NotContains(t, types2, "GeoPoint")
	assert.Contains(t, src, "type Position = Point")
	assert.Contains(t, src, "var PositionCodec = PointCodec")
	assert.Contains(t, src, "type Count = uint32")
	assert.Contains(t, src, `"geo.point" re-exports "types.point"`)
	assert.Contains(t, src, "Move(ctx context.Context, p Point, to Point) (Point, error)")
}

func TestGenerateNameCollisions(t *testing.T) {
	b := ir.NewBuilder()
	a := b.Interface("ex:names", "a")
	ia := a.Type("item", &ir.Record{Fields: []ir.Field{{Name: "id", Type: ir.U64}}})
	bi := b.Interface("ex:names", "b")
	ib := bi.Type("item", &ir.Enum{Cases: []string{"one"}})
	codecName := bi.Type("item-codec", &ir.Record{Fields: []ir.Field{{Name: "type", Type: ir.String}}})
	bi.Func("pick", ir.Params("type", ia, "value", ib, "ctx", codecName), ir.Results{})

	w := b.World("ex:names", "names").ImportInterface(bi.ID())
	_, src := generate(t, b.Resolve(), w.ID(), Options{})
	types, _ := declared(t, src)

	assert.Equal(t, 1, types["Item"])
	assert.Equal(t, 1, types["BItem"])
	assert.Equal(t, 1, types["ItemCodec2"])
	assert.Contains(t, src, "var BItemCodec codec.Codec[BItem] = bItemCodec{}")
	assert.Contains(t, src, "ID uint64 `wit:\"id\"`")
	assert.Contains(t, src, "Pick(ctx context.Context, type_ Item, value_ BItem, ctx_ ItemCodec2) error")
}

func TestGenerateFieldCollisions(t *testing.T) {
	b := ir.NewBuilder()
	keys := b.Interface("ex:keys", "keys")
	key := keys.Type("key", &ir.Record{Fields: []ir.Field{
		{Name: "id", Type: ir.U64},
		{Name: "i-d", Type: ir.String},
		{Name: "key", Type: ir.Bool},
	}})
	keys.Func("check", ir.Params("k", key), ir.Results{})

	w := b.World("ex:keys", "keys").ImportInterface(keys.ID())
	_, src := generate(t, b.Resolve(), w.ID(), Options{})
	declared(t, src)

	assert.Contains(t, src, "ID  uint64 `wit:\"id\"`")
	assert.Contains(t, src, "ID2 string `wit:\"i-d\"`")
	assert.Contains(t, src, "Key bool   `wit:\"key\"`")
	assert.Contains(t, src, `if x.ID2, err = codec.Field(v, "i-d", codec.String); err != nil {`)
	assert.Contains(t, src, `codec.Put(&e, "i-d", codec.String, x.ID2)`)
}

func TestGenerateUnsupported(t *testing.T) {
	b := ir.NewBuilder()
	io := b.Interface("ex:bad", "io")
	stream := io.Type("bytes", &ir.Unsupported{What: "stream"})
	wide := b.Tuple(ir.U8, ir.U8, ir.U8, ir.U8, ir.U8, ir.U8, ir.U8, ir.U8, ir.U8)
	many := make([]string, 65)
	for i := range many {
		many[i] = "f" + strings.Repeat("x", i)
	}
	io.Type("huge", &ir.Flags{Flags: many})
	io.Func("read", ir.Params("s", stream), ir.Returns(ir.U32))
	io.Func("wide", nil, ir.Returns(wide))
	io.Func("ok", ir.Params("n", ir.U32), ir.Returns(ir.Bool))
	anon := b.Anon(&ir.Record{Fields: []ir.Field{{Name: "n", Type: ir.U8}}})
	io.Func("anon", ir.Params("r", anon), ir.Results{})

	w := b.World("ex:bad", "bad").ImportInterface(io.ID())
	out, src := generate(t, b.Resolve(), w.ID(), Options{})
	types, _ := declared(t, src)

	errs := diagnosticsOf(out, SeverityError)
	require.Len(t, errs, 4)
	assert.Equal(t, "bytes", errs[0].Type)
	assert.Contains(t, errs[1].Message, "more than 64")
	assert.Equal(t, "read", errs[2].Function)
	assert.Equal(t, "ex:bad/io", errs[2].Interface)
	assert.Contains(t, errs[3].Message, "tuple arity 9")

	warns := diagnosticsOf(out, SeverityWarning)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "no name")

	assert.Contains(t, src, `// witgen: type "bytes" is not generated: unsupported type kind stream.`)
	assert.Contains(t, src, `// witgen: import "ex:bad/io.read" is not generated`)
	assert.Contains(t, src, "Ok(ctx context.Context, n uint32) (bool, error)")
	assert.Contains(t, src, "Anon(ctx context.Context, r Type")
	assert.NotContains(t, types, "Huge")
}

func TestGenerateModes(t *testing.T) {
	res, w := calculator()

	_, imp := generate(t, res, w, Options{ImportsOnly: true})
	assert.Contains(t, imp, "RegisterMathHost")
	assert.NotContains(t, imp, "linker.Bind")
	assert.Contains(t, imp, "type Shape interface")

	_, exp := generate(t, res, w, Options{ExportsOnly: true})
	assert.NotContains(t, exp, "RegisterMathHost")
	assert.Contains(t, exp, "GetReportDescribe")

	_, err := Generate(res, w, Options{ImportsOnly: true, ExportsOnly: true})
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})

	_, err = Generate(res, w, Options{Package: "func"})
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})

	_, err = Generate(res, 7, Options{})
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})

	_, src := generate(t, res, w, Options{Package: "calcbind"})
	assert.Contains(t, src, "package calcbind\n")
}

func TestGenerateManifest(t *testing.T) {
	res, w := calculator()
	out, _ := generate(t, res, w, Options{})

	m := out.Manifest
	assert.Equal(t, "example:calc/calculator@0.1.0", m.World)
	assert.Equal(t, "calculator", m.Package)
	assert.Contains(t, m.Entries, ManifestEntry{Kind: "record", WIT: "point", Go: "Point", Interface: "types"})
	assert.Contains(t, m.Entries, ManifestEntry{Kind: "reexport", WIT: "point", Go: "Point", Interface: "math"})
	assert.Contains(t, m.Entries, ManifestEntry{Kind: "host-interface", WIT: "example:calc/math@0.1.0", Go: "MathHost", Interface: "example:calc/math@0.1.0"})
	assert.Contains(t, m.Entries, ManifestEntry{Kind: "host-func", WIT: "log", Go: "LogHost"})
	assert.Contains(t, m.Entries, ManifestEntry{Kind: "export-func", WIT: "run", Go: "GetRun"})
}

func TestGeneratePrunesImports(t *testing.T) {
	b := ir.NewBuilder()
	w := b.World("ex:tiny", "tiny").ImportFunc("tick", nil, ir.Results{})
	_, src := generate(t, b.Resolve(), w.ID(), Options{})

	assert.ElementsMatch(t, []string{"context", RuntimeModule + "/linker", RuntimeModule + "/value"}, imports(t, src))
	assert.Contains(t, src, "return impl.Tick(ctx)")
}
