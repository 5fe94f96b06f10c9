package bindgen

import (
	"fmt"
	"strings"

	"github.com/wippyai/witgen/ir"
)

// signature is the Go shape of one WIT function.
type signature struct {
	fn     *ir.Function
	method string
	params []string
	// ret is the Go result type, empty when the function returns nothing.
	ret      string
	retCodec string
	results  []ir.Type
}

// signature renders fn, or returns the reason it cannot be bound.
func (g *generator) signature(fn *ir.Function) (*signature, string) {
	for _, p := range fn.Params {
		if r := g.why(p.Type); r != "" {
			return nil, fmt.Sprintf("parameter %s: %s", p.Name, r)
		}
	}
	results := fn.Results.Types()
	if r := g.whyAll(results...); r != "" {
		return nil, "result: " + r
	}
	if len(results) > maxTuple {
		return nil, fmt.Sprintf("%d results do not fit a tuple", len(results))
	}

	s := &signature{fn: fn, method: pascal(fn.Name), results: results}
	seen := map[string]int{}
	for _, p := range fn.Params {
		name := paramName(p.Name)
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s%d", name, n+1)
		}
		seen[name]++
		s.params = append(s.params, name)
	}
	switch len(results) {
	case 0:
	case 1:
		s.ret = g.goType(results[0])
		s.retCodec = g.codecExpr(results[0])
	default:
		s.ret = fmt.Sprintf("codec.Tuple%d[%s]", len(results), g.goTypes(results))
		s.retCodec = fmt.Sprintf("codec.Tuple%dOf(%s)", len(results), g.codecExprs(results))
	}
	return s, ""
}

// decl renders the parameter list and result of the host method.
func (s *signature) decl(g *generator) string {
	var b strings.Builder
	b.WriteString("(ctx context.Context")
	for i, p := range s.fn.Params {
		b.WriteString(", ")
		b.WriteString(s.params[i])
		b.WriteByte(' ')
		b.WriteString(g.goType(p.Type))
	}
	b.WriteByte(')')
	if s.ret == "" {
		b.WriteString(" error")
	} else {
		b.WriteString(" (" + s.ret + ", error)")
	}
	return b.String()
}

// importGroup is one Register*Host unit: an imported interface or a
// top-level imported function.
type importGroup struct {
	key   string
	iface *ir.Interface
	funcs []*ir.Function

	host    string
	adapter string
	reg     string
}

// emitImports writes a host interface and a registration function for
// every import of the world.
func (g *generator) emitImports() {
	for _, e := range g.world.Imports {
		switch item := e.Item.(type) {
		case ir.InterfaceRef:
			iface := g.res.Interface(item.ID)
			if len(iface.Functions) == 0 {
				// types-only interfaces need no host
				continue
			}
			grp := &importGroup{key: e.Key, iface: iface, funcs: iface.Functions}
			grp.host = g.names.claim(pascal(iface.Name)+"Host", packagePrefix(iface.Package))
			grp.reg = g.names.claim("Register" + grp.host)
			g.emitImportGroup(grp)
			g.record("host-interface", e.Key, grp.host, e.Key)
		case *ir.Function:
			grp := &importGroup{key: e.Key, funcs: []*ir.Function{item}}
			grp.host = g.names.claim(pascal(item.Name) + "Host")
			grp.adapter = g.names.claim(grp.host + "Func")
			grp.reg = g.names.claim("Register" + grp.host)
			g.emitImportGroup(grp)
			g.record("host-func", e.Key, grp.host, "")
		}
	}
}

func (g *generator) emitImportGroup(grp *importGroup) {
	iface := ""
	if grp.iface != nil {
		iface = grp.key
	}

	var sigs []*signature
	for _, fn := range grp.funcs {
		s, reason := g.signature(fn)
		if reason != "" {
			g.marker("import %s is not generated: %s.", qualify(iface, fn.Name), reason)
			g.diag(Diagnostic{Severity: SeverityError, Interface: iface, Function: fn.Name, Message: reason})
			continue
		}
		sigs = append(sigs, s)
	}

	g.p("")
	if grp.iface != nil {
		g.p("// %s is implemented by the host to provide the imported interface %q.", grp.host, grp.key)
	} else {
		g.p("// %s is implemented by the host to provide the imported function %q.", grp.host, grp.key)
	}
	g.p("type %s interface {", grp.host)
	for _, s := range sigs {
		g.p("%s%s", s.method, s.decl(g))
	}
	g.p("}")

	if grp.adapter != "" && len(sigs) == 1 {
		s := sigs[0]
		g.p("")
		g.p("// %s adapts a function to %s.", grp.adapter, grp.host)
		g.p("type %s func%s", grp.adapter, s.decl(g))
		g.p("")
		g.p("func (f %s) %s%s {", grp.adapter, s.method, s.decl(g))
		g.p("return f(%s)", strings.Join(append([]string{"ctx"}, s.params...), ", "))
		g.p("}")
	}

	g.p("")
	g.p("// %s defines the functions of %q on l, dispatching calls to impl.", grp.reg, grp.key)
	g.p("func %s(l linker.Definer, impl %s) error {", grp.reg, grp.host)
	if grp.iface != nil {
		g.p("inst, err := l.DefineInstance(%q)", grp.key)
		g.p("if err != nil {")
		g.p("return err")
		g.p("}")
	} else {
		g.p("inst := l.Root()")
	}
	for _, s := range sigs {
		g.emitDefine(s)
	}
	if len(sigs) == 0 {
		g.p("_ = inst")
	}
	g.p("return nil")
	g.p("}")
}

// emitDefine writes the DefineFunc call of one imported function: decode
// every parameter, call impl, encode every result.
func (g *generator) emitDefine(s *signature) {
	g.p("if err := inst.DefineFunc(%q, linker.FuncType{", s.fn.Name)
	if len(s.fn.Params) > 0 {
		types := make([]string, len(s.fn.Params))
		for i, p := range s.fn.Params {
			types[i] = g.codecExpr(p.Type) + ".Type()"
		}
		g.p("Params: []value.Type{%s},", strings.Join(types, ", "))
	}
	if len(s.results) > 0 {
		types := make([]string, len(s.results))
		for i, t := range s.results {
			types[i] = g.codecExpr(t) + ".Type()"
		}
		g.p("Results: []value.Type{%s},", strings.Join(types, ", "))
	}
	g.p("}, func(ctx context.Context, params, results []value.Value) error {")

	args := []string{"ctx"}
	for i, p := range s.fn.Params {
		arg := fmt.Sprintf("arg%d", i)
		args = append(args, arg)
		g.p("%s, err := codec.Param(params, %d, %s)", arg, i, g.codecExpr(p.Type))
		g.p("if err != nil {")
		g.p("return err")
		g.p("}")
	}
	call := "impl." + s.method + "(" + strings.Join(args, ", ") + ")"

	switch len(s.results) {
	case 0:
		g.p("return %s", call)
	case 1:
		g.p("ret, err := %s", call)
		g.p("if err != nil {")
		g.p("return err")
		g.p("}")
		g.p("return codec.SetResult(results, 0, %s, ret)", s.retCodec)
	default:
		g.p("ret, err := %s", call)
		g.p("if err != nil {")
		g.p("return err")
		g.p("}")
		last := len(s.results) - 1
		for i, t := range s.results[:last] {
			g.p("if err := codec.SetResult(results, %d, %s, ret.F%d); err != nil {", i, g.codecExpr(t), i)
			g.p("return err")
			g.p("}")
		}
		g.p("return codec.SetResult(results, %d, %s, ret.F%d)", last, g.codecExpr(s.results[last]), last)
	}
	g.p("}); err != nil {")
	g.p("return err")
	g.p("}")
}

// packagePrefix turns "wasi:io@0.2.0" into "WasiIO" for disambiguating
// interfaces of the same name.
func packagePrefix(pkg string) string {
	base, _, _ := strings.Cut(pkg, "@")
	if base == "" {
		return ""
	}
	return pascal(base)
}
