package bindgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/witgen/ir"
)

var primitiveGo = map[ir.Primitive]string{
	ir.Bool:   "bool",
	ir.U8:     "uint8",
	ir.U16:    "uint16",
	ir.U32:    "uint32",
	ir.U64:    "uint64",
	ir.S8:     "int8",
	ir.S16:    "int16",
	ir.S32:    "int32",
	ir.S64:    "int64",
	ir.F32:    "float32",
	ir.F64:    "float64",
	ir.Char:   "rune",
	ir.String: "string",
}

var primitiveCodec = map[ir.Primitive]string{
	ir.Bool:   "codec.Bool",
	ir.U8:     "codec.U8",
	ir.U16:    "codec.U16",
	ir.U32:    "codec.U32",
	ir.U64:    "codec.U64",
	ir.S8:     "codec.S8",
	ir.S16:    "codec.S16",
	ir.S32:    "codec.S32",
	ir.S64:    "codec.S64",
	ir.F32:    "codec.F32",
	ir.F64:    "codec.F64",
	ir.Char:   "codec.Char",
	ir.String: "codec.String",
}

// maxTuple is the largest tuple the codec package has a type for.
const maxTuple = 8

// maxFlags is the number of bits a flags value can carry.
const maxFlags = 64

// declares reports whether td gets a declaration of its own. Structural
// types only do when the WIT source names them.
func declares(td *ir.TypeDef) bool {
	switch td.Kind.(type) {
	case *ir.Record, *ir.Variant, *ir.Enum, *ir.Flags, *ir.Resource:
		return true
	default:
		return td.Name != ""
	}
}

// goType renders t as a Go type expression.
func (g *generator) goType(t ir.Type) string {
	switch t := t.(type) {
	case nil:
		return "codec.Unit"
	case ir.Primitive:
		return primitiveGo[t]
	case ir.TypeID:
		switch k := g.res.Type(t).Kind.(type) {
		case *ir.Record, *ir.Variant, *ir.Enum, *ir.Flags, *ir.Resource:
			return g.declName(t)
		case *ir.Alias:
			return g.goType(k.Target)
		case *ir.List:
			return "[]" + g.goType(k.Elem)
		case *ir.Option:
			return "*" + g.goType(k.Elem)
		case *ir.Result:
			return "codec.Result[" + g.goType(k.OK) + ", " + g.goType(k.Err) + "]"
		case *ir.Tuple:
			return fmt.Sprintf("codec.Tuple%d[%s]", len(k.Types), g.goTypes(k.Types))
		case *ir.Handle:
			return "codec.Handle"
		}
	}
	return "any"
}

func (g *generator) goTypes(types []ir.Type) string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = g.goType(t)
	}
	return strings.Join(out, ", ")
}

// codecExpr renders the codec expression for t. A nil t is codec.Void.
func (g *generator) codecExpr(t ir.Type) string {
	switch t := t.(type) {
	case nil:
		return "codec.Void"
	case ir.Primitive:
		return primitiveCodec[t]
	case ir.TypeID:
		td := g.res.Type(t)
		switch k := td.Kind.(type) {
		case *ir.Record, *ir.Variant, *ir.Enum, *ir.Flags:
			if d := g.decls[t]; d != nil {
				return d.codec
			}
			return g.declName(t) + "Codec"
		case *ir.Resource:
			return "codec.Own(" + strconv.Quote(td.Name) + ")"
		case *ir.Alias:
			return g.codecExpr(k.Target)
		case *ir.List:
			return "codec.List(" + g.codecExpr(k.Elem) + ")"
		case *ir.Option:
			return "codec.Option(" + g.codecExpr(k.Elem) + ")"
		case *ir.Result:
			return "codec.ResultOf(" + g.codecExpr(k.OK) + ", " + g.codecExpr(k.Err) + ")"
		case *ir.Tuple:
			return fmt.Sprintf("codec.Tuple%dOf(%s)", len(k.Types), g.codecExprs(k.Types))
		case *ir.Handle:
			name := strconv.Quote(g.res.Type(k.Resource).Name)
			if k.Borrow {
				return "codec.Borrow(" + name + ")"
			}
			return "codec.Own(" + name + ")"
		}
	}
	return "nil"
}

func (g *generator) codecExprs(types []ir.Type) string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = g.codecExpr(t)
	}
	return strings.Join(out, ", ")
}

func (g *generator) declName(id ir.TypeID) string {
	if d := g.decls[id]; d != nil {
		return d.name
	}
	return "Type" + strconv.Itoa(int(id))
}

// why returns the reason t cannot be represented in Go, or "" when it can.
func (g *generator) why(t ir.Type) string {
	id, ok := t.(ir.TypeID)
	if !ok {
		return ""
	}
	if r, done := g.bad[id]; done {
		return r
	}
	// a cycle back to id is representable as far as id is concerned
	g.bad[id] = ""
	r := g.whyKind(g.res.Type(id))
	g.bad[id] = r
	return r
}

func (g *generator) whyKind(td *ir.TypeDef) string {
	switch k := td.Kind.(type) {
	case *ir.Unsupported:
		return "unsupported type kind " + k.What
	case *ir.Flags:
		if len(k.Flags) > maxFlags {
			return fmt.Sprintf("flags %s has %d flags, more than %d", td.Name, len(k.Flags), maxFlags)
		}
	case *ir.Tuple:
		if len(k.Types) == 0 || len(k.Types) > maxTuple {
			return fmt.Sprintf("tuple arity %d is outside 1..%d", len(k.Types), maxTuple)
		}
		return g.whyAll(k.Types...)
	case *ir.Record:
		for _, f := range k.Fields {
			if r := g.why(f.Type); r != "" {
				return r
			}
		}
	case *ir.Variant:
		for _, c := range k.Cases {
			if r := g.why(c.Type); r != "" {
				return r
			}
		}
	case *ir.List:
		return g.why(k.Elem)
	case *ir.Option:
		return g.why(k.Elem)
	case *ir.Result:
		return g.whyAll(k.OK, k.Err)
	case *ir.Alias:
		return g.why(k.Target)
	case nil:
		return "type has no kind"
	}
	return ""
}

func (g *generator) whyAll(types ...ir.Type) string {
	for _, t := range types {
		if r := g.why(t); r != "" {
			return r
		}
	}
	return ""
}

// witName renders t the way WIT source spells it, for comments and
// diagnostics.
func (g *generator) witName(t ir.Type) string {
	switch t := t.(type) {
	case nil:
		return "_"
	case ir.Primitive:
		return t.String()
	case ir.TypeID:
		td := g.res.Type(t)
		if td.Name != "" {
			return td.Name
		}
		switch k := td.Kind.(type) {
		case *ir.List:
			return "list<" + g.witName(k.Elem) + ">"
		case *ir.Option:
			return "option<" + g.witName(k.Elem) + ">"
		case *ir.Result:
			return "result<" + g.witName(k.OK) + ", " + g.witName(k.Err) + ">"
		case *ir.Tuple:
			parts := make([]string, len(k.Types))
			for i, e := range k.Types {
				parts[i] = g.witName(e)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		case *ir.Handle:
			if k.Borrow {
				return "borrow<" + g.witName(k.Resource) + ">"
			}
			return "own<" + g.witName(k.Resource) + ">"
		case *ir.Alias:
			return g.witName(k.Target)
		case *ir.Unsupported:
			return k.What
		}
		return "type" + strconv.Itoa(int(t))
	}
	return "?"
}
