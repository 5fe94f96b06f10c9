package bindgen

import (
	"fmt"

	"github.com/wippyai/witgen/ir"
)

// emitExports writes typed accessors for every export of the world.
func (g *generator) emitExports() {
	for _, e := range g.world.Exports {
		switch item := e.Item.(type) {
		case ir.InterfaceRef:
			g.emitExportInterface(e.Key, g.res.Interface(item.ID))
		case *ir.Function:
			getter := g.names.claim("Get" + pascal(item.Name))
			g.emitGetter(getter, "", item, "inst.Exports()")
		}
	}
}

func (g *generator) emitExportInterface(key string, iface *ir.Interface) {
	base := pascal(iface.Name)
	prefix := packagePrefix(iface.Package)
	constName := g.names.claim(base+"InterfaceName", prefix)
	accessor := g.names.claim(base+"Exports", prefix)

	g.p("")
	g.p("// %s is the export name of the interface %q.", constName, key)
	g.p("const %s = %q", constName, key)
	g.p("")
	g.p("// %s returns the exports of %s on inst.", accessor, constName)
	g.p("func %s(inst linker.Instance) (linker.Exports, error) {", accessor)
	g.p("return linker.Lookup(inst, %s)", constName)
	g.p("}")
	g.record("export-interface", key, accessor, key)

	for _, fn := range iface.Functions {
		getter := g.names.claim("Get" + base + pascal(fn.Name))
		g.emitGetter(getter, key, fn, accessor+"(inst)")
	}
}

// emitGetter writes an accessor binding one exported function. exports is
// the expression yielding the linker.Exports the function lives in.
func (g *generator) emitGetter(getter, iface string, fn *ir.Function, exports string) {
	s, reason := g.signature(fn)
	if reason == "" && len(fn.Params) > maxTuple {
		reason = fmt.Sprintf("%d parameters do not fit a tuple", len(fn.Params))
	}
	if reason != "" {
		g.marker("export %s is not generated: %s.", qualify(iface, fn.Name), reason)
		g.diag(Diagnostic{Severity: SeverityError, Interface: iface, Function: fn.Name, Message: reason})
		return
	}

	ptype, pcodec := "codec.Unit", "codec.Void"
	switch n := len(fn.Params); n {
	case 0:
	case 1:
		ptype, pcodec = g.goType(fn.Params[0].Type), g.codecExpr(fn.Params[0].Type)
	default:
		types := make([]ir.Type, n)
		for i, p := range fn.Params {
			types[i] = p.Type
		}
		ptype = fmt.Sprintf("codec.Tuple%d[%s]", n, g.goTypes(types))
		pcodec = fmt.Sprintf("codec.Tuple%dOf(%s)", n, g.codecExprs(types))
	}
	rtype, rcodec := s.ret, s.retCodec
	if rtype == "" {
		rtype, rcodec = "codec.Unit", "codec.Void"
	}

	g.p("")
	if iface == "" {
		g.p("// %s binds the exported function %q.", getter, fn.Name)
	} else {
		g.p("// %s binds the function %q of the exported interface %q.", getter, fn.Name, iface)
	}
	g.p("func %s(inst linker.Instance) (*linker.TypedFunc[%s, %s], error) {", getter, ptype, rtype)
	if iface == "" {
		g.p("return linker.Bind(%s, %q, %s, %d, %s, %d)", exports, fn.Name, pcodec, len(fn.Params), rcodec, len(s.results))
	} else {
		g.p("exports, err := %s", exports)
		g.p("if err != nil {")
		g.p("return nil, err")
		g.p("}")
		g.p("return linker.Bind(exports, %q, %s, %d, %s, %d)", fn.Name, pcodec, len(fn.Params), rcodec, len(s.results))
	}
	g.p("}")
	g.record("export-func", fn.Name, getter, iface)
}
