package bindgen

import (
	"strconv"

	"fortio.org/safecast"

	"github.com/wippyai/witgen/ir"
)

// Every codec builds its values from its own Type method, so the
// descriptor a value carries is always the one the codec reports.

func (g *generator) codecHead(d *decl) {
	g.p("")
	g.p("// %s converts %s values.", d.codec, d.name)
	g.p("var %s codec.Codec[%s] = %s{}", d.codec, d.name, d.impl)
	g.p("")
	g.p("type %s struct{}", d.impl)
}

// disc renders case index i as a discriminant literal.
func (g *generator) disc(d *decl, i int) string {
	n, err := safecast.Conv[uint32](i)
	if err != nil {
		g.diag(Diagnostic{Severity: SeverityError, Interface: d.owner, Type: d.wit, Message: err.Error()})
	}
	return strconv.FormatUint(uint64(n), 10)
}

func (g *generator) codecRecord(d *decl, k *ir.Record) {
	g.codecHead(d)

	g.p("")
	g.p("func (%s) Type() value.Type {", d.impl)
	g.p("return value.RecordType(")
	for _, f := range k.Fields {
		g.p("value.FieldType{Name: %q, Type: %s.Type()},", f.Name, g.codecExpr(f.Type))
	}
	g.p(")")
	g.p("}")

	g.p("")
	g.p("func (%s) Decode(v value.Value) (x %s, err error) {", d.impl, d.name)
	g.p("if err = codec.Expect(v, value.KindRecord); err != nil {")
	g.p("return x, err")
	g.p("}")
	for i, f := range k.Fields {
		g.p("if x.%s, err = codec.Field(v, %q, %s); err != nil {", d.members[i], f.Name, g.codecExpr(f.Type))
		g.p("return x, err")
		g.p("}")
	}
	g.p("return x, nil")
	g.p("}")

	g.p("")
	g.p("func (c %s) Encode(x %s) (value.Value, error) {", d.impl, d.name)
	g.p("var e codec.Encoder")
	for i, f := range k.Fields {
		g.p("codec.Put(&e, %q, %s, x.%s)", f.Name, g.codecExpr(f.Type), d.members[i])
	}
	g.p("return e.Record(c.Type())")
	g.p("}")
}

func (g *generator) codecVariant(d *decl, k *ir.Variant) {
	g.codecHead(d)

	g.p("")
	g.p("func (%s) Type() value.Type {", d.impl)
	g.p("return value.VariantType(")
	for _, c := range k.Cases {
		if c.Type == nil {
			g.p("value.CaseType{Name: %q},", c.Name)
		} else {
			g.p("value.CaseType{Name: %q, Payload: %s.Type()},", c.Name, g.codecExpr(c.Type))
		}
	}
	g.p(")")
	g.p("}")

	g.p("")
	g.p("func (%s) Decode(v value.Value) (%s, error) {", d.impl, d.name)
	g.p("disc, p, err := v.AsVariant()")
	g.p("if err != nil {")
	g.p("return nil, err")
	g.p("}")
	g.p("switch disc {")
	for i, c := range k.Cases {
		g.p("case %s:", g.disc(d, i))
		if c.Type == nil {
			g.p("if err := codec.NoPayload(%q, p); err != nil {", c.Name)
			g.p("return nil, err")
			g.p("}")
			g.p("return %s{}, nil", d.members[i])
		} else {
			g.p("x, err := codec.Payload(%q, p, %s)", c.Name, g.codecExpr(c.Type))
			g.p("if err != nil {")
			g.p("return nil, err")
			g.p("}")
			g.p("return %s{Value: x}, nil", d.members[i])
		}
	}
	g.p("default:")
	g.p("return nil, codec.BadDiscriminant(disc, %d)", len(k.Cases))
	g.p("}")
	g.p("}")

	g.p("")
	g.p("func (c %s) Encode(x %s) (value.Value, error) {", d.impl, d.name)
	g.p("t := c.Type()")
	g.p("switch x := x.(type) {")
	for i, c := range k.Cases {
		g.p("case %s:", d.members[i])
		if c.Type == nil {
			g.p("return value.Variant(t, %s, nil), nil", g.disc(d, i))
		} else {
			g.p("p, err := codec.EncodePayload(%q, %s, x.Value)", c.Name, g.codecExpr(c.Type))
			g.p("if err != nil {")
			g.p("return value.Value{}, err")
			g.p("}")
			g.p("return value.Variant(t, %s, p), nil", g.disc(d, i))
		}
	}
	g.p("default:")
	g.p("return value.Value{}, codec.NotACase(x, t)")
	g.p("}")
	g.p("}")
}

func (g *generator) codecEnum(d *decl, k *ir.Enum) {
	g.codecHead(d)

	g.p("")
	g.p("func (%s) Type() value.Type {", d.impl)
	g.p("return value.EnumType(%s)", quoteAll(k.Cases))
	g.p("}")

	g.p("")
	g.p("func (%s) Decode(v value.Value) (%s, error) {", d.impl, d.name)
	g.p("disc, err := codec.EnumCase(v, %d)", len(k.Cases))
	g.p("return %s(disc), err", d.name)
	g.p("}")

	g.p("")
	g.p("func (c %s) Encode(x %s) (value.Value, error) {", d.impl, d.name)
	g.p("if int(x) >= %d {", len(k.Cases))
	g.p("return value.Value{}, codec.BadEnum(uint32(x), %q)", d.wit)
	g.p("}")
	g.p("return value.Enum(c.Type(), uint32(x)), nil")
	g.p("}")
}

func (g *generator) codecFlags(d *decl, k *ir.Flags) {
	g.codecHead(d)

	g.p("")
	g.p("func (%s) Type() value.Type {", d.impl)
	g.p("return value.FlagsType(%s)", quoteAll(k.Flags))
	g.p("}")

	g.p("")
	g.p("func (%s) Decode(v value.Value) (%s, error) {", d.impl, d.name)
	g.p("bits, err := codec.FlagBits(v)")
	g.p("return %s(bits) & %s(), err", d.name, d.all)
	g.p("}")

	g.p("")
	g.p("func (c %s) Encode(x %s) (value.Value, error) {", d.impl, d.name)
	g.p("return value.Flags(c.Type(), uint64(x&%s())), nil", d.all)
	g.p("}")
}
