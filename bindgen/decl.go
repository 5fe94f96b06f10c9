package bindgen

import (
	"strconv"
	"strings"

	"github.com/wippyai/witgen/ir"
)

// decl is the naming decision for one declared type. Every identifier in
// it was claimed from the generator's namer.
type decl struct {
	id    ir.TypeID
	wit   string
	owner string

	name  string
	codec string
	impl  string
	// members are the record fields, variant case types, enum constants or
	// flag constants, in declaration order.
	members []string
	table   string
	empty   string
	all     string

	// reexport is set when the type is a "use" of a same-named type.
	reexport *decl
	// reason is set when the type cannot be represented.
	reason string
}

// assignNames walks the collected types in TypeID order and claims the
// Go names of every declaration.
func (g *generator) assignNames() {
	var reexports []ir.TypeID
	for _, id := range g.order {
		td := g.res.Type(id)
		if !declares(td) {
			continue
		}
		if _, ok := g.reexportTarget(id); ok {
			reexports = append(reexports, id)
			continue
		}

		d := &decl{id: id, wit: td.Name, owner: td.Owner}
		g.decls[id] = d
		if d.wit == "" {
			d.wit = "type" + strconv.Itoa(int(id))
			g.diag(Diagnostic{
				Severity:  SeverityWarning,
				Interface: td.Owner,
				Type:      d.wit,
				Message:   "type has no name, using a placeholder",
			})
		}
		if r := g.why(id); r != "" {
			d.reason = r
			continue
		}

		prefix := ""
		if td.Owner != "" {
			prefix = pascal(td.Owner)
		}
		d.name = g.names.claim(pascal(d.wit), prefix)

		switch k := td.Kind.(type) {
		case *ir.Resource:
			continue
		case *ir.Record:
			// fields live in the struct's own scope
			fields := &namer{used: map[string]bool{}}
			for _, f := range k.Fields {
				d.members = append(d.members, fields.claim(pascal(f.Name)))
			}
		case *ir.Variant:
			for _, c := range k.Cases {
				d.members = append(d.members, g.names.claim(d.name+pascal(c.Name)))
			}
		case *ir.Enum:
			for _, c := range k.Cases {
				d.members = append(d.members, g.names.claim(d.name+pascal(c)))
			}
			d.table = g.names.claim(lowerFirst(d.name) + "Names")
		case *ir.Flags:
			for _, f := range k.Flags {
				d.members = append(d.members, g.names.claim(d.name+pascal(f)))
			}
			d.table = g.names.claim(lowerFirst(d.name) + "Names")
			d.empty = g.names.claim("Empty" + d.name)
			d.all = g.names.claim("All" + d.name)
		}

		d.codec = g.names.claim(d.name + "Codec")
		switch td.Kind.(type) {
		case *ir.Record, *ir.Variant, *ir.Enum, *ir.Flags:
			d.impl = g.names.claim(lowerFirst(d.name) + "Codec")
		}
	}

	for _, id := range reexports {
		target, _ := g.reexportTarget(id)
		td := g.res.Type(id)
		g.decls[id] = &decl{id: id, wit: td.Name, owner: td.Owner, reexport: g.decls[target]}
	}
}

// reexportTarget reports whether id is an alias that resolves to a
// different declared type of the same WIT name, as "use" statements
// produce.
func (g *generator) reexportTarget(id ir.TypeID) (ir.TypeID, bool) {
	td := g.res.Type(id)
	if _, ok := td.Kind.(*ir.Alias); !ok || td.Name == "" {
		return 0, false
	}
	target, ok := g.res.Deref(id).(ir.TypeID)
	if !ok || target == id {
		return 0, false
	}
	ttd := g.res.Type(target)
	return target, ttd.Name == td.Name && declares(ttd)
}

// emitTypes writes one declaration and one codec per declared type.
func (g *generator) emitTypes() {
	for _, id := range g.order {
		d := g.decls[id]
		if d == nil {
			continue
		}
		if d.reexport != nil && d.reexport.reason == "" {
			g.marker("%s re-exports %s; use %s.", qualify(d.owner, d.wit), qualify(d.reexport.owner, d.reexport.wit), d.reexport.name)
			g.record("reexport", d.wit, d.reexport.name, d.owner)
			continue
		}
		if d.reexport != nil {
			d.reason = d.reexport.reason
		}
		if d.reason != "" {
			g.marker("type %q is not generated: %s.", d.wit, d.reason)
			g.diag(Diagnostic{Severity: SeverityError, Interface: d.owner, Type: d.wit, Message: d.reason})
			continue
		}

		switch k := g.res.Type(id).Kind.(type) {
		case *ir.Record:
			g.declRecord(d, k)
			g.codecRecord(d, k)
			g.record("record", d.wit, d.name, d.owner)
		case *ir.Variant:
			g.declVariant(d, k)
			g.codecVariant(d, k)
			g.record("variant", d.wit, d.name, d.owner)
		case *ir.Enum:
			g.declEnum(d, k)
			g.codecEnum(d, k)
			g.record("enum", d.wit, d.name, d.owner)
		case *ir.Flags:
			g.declFlags(d, k)
			g.codecFlags(d, k)
			g.record("flags", d.wit, d.name, d.owner)
		case *ir.Resource:
			g.declResource(d)
			g.record("resource", d.wit, d.name, d.owner)
		default:
			g.declAlias(d)
			g.record("alias", d.wit, d.name, d.owner)
		}
	}
}

func (g *generator) declRecord(d *decl, k *ir.Record) {
	g.p("")
	g.p("// %s is the WIT record %q.", d.name, d.wit)
	g.p("type %s struct {", d.name)
	for i, f := range k.Fields {
		g.p("%s %s `wit:%q`", d.members[i], g.goType(f.Type), f.Name)
	}
	g.p("}")
}

func (g *generator) declVariant(d *decl, k *ir.Variant) {
	marker := "is" + d.name
	g.p("")
	g.p("// %s is the WIT variant %q. It holds one of %s.", d.name, d.wit, strings.Join(d.members, ", "))
	g.p("type %s interface {", d.name)
	g.p("%s()", marker)
	g.p("}")

	for i, c := range k.Cases {
		name := d.members[i]
		g.p("")
		g.p("// %s is the %q case of %s.", name, c.Name, d.name)
		if c.Type == nil {
			g.p("type %s struct{}", name)
		} else {
			g.p("type %s struct {", name)
			g.p("Value %s", g.goType(c.Type))
			g.p("}")
		}
		g.p("")
		g.p("func (%s) %s() {}", name, marker)
	}
}

func (g *generator) declEnum(d *decl, k *ir.Enum) {
	g.p("")
	g.p("// %s is the WIT enum %q.", d.name, d.wit)
	g.p("type %s uint32", d.name)
	g.p("")
	g.p("const (")
	for i, name := range d.members {
		if i == 0 {
			g.p("%s %s = iota", name, d.name)
		} else {
			g.p("%s", name)
		}
	}
	g.p(")")
	g.p("")
	g.p("var %s = [...]string{%s}", d.table, quoteAll(k.Cases))
	g.p("")
	g.p("func (x %s) String() string {", d.name)
	g.p("if int(x) < len(%s) {", d.table)
	g.p("return %s[x]", d.table)
	g.p("}")
	g.p("return %q + strconv.FormatUint(uint64(x), 10) + \")\"", d.name+"(")
	g.p("}")
}

func (g *generator) declFlags(d *decl, k *ir.Flags) {
	g.p("")
	g.p("// %s is the WIT flags %q.", d.name, d.wit)
	g.p("type %s %s", d.name, flagsRep(len(k.Flags)))
	g.p("")
	g.p("const (")
	for i, name := range d.members {
		if i == 0 {
			g.p("%s %s = 1 << iota", name, d.name)
		} else {
			g.p("%s", name)
		}
	}
	g.p(")")
	g.p("")
	g.p("var %s = [...]string{%s}", d.table, quoteAll(k.Flags))

	all := "0"
	if len(d.members) > 0 {
		all = strings.Join(d.members, " | ")
	}
	g.p("")
	g.p("// %s returns the set with no flags.", d.empty)
	g.p("func %s() %s { return 0 }", d.empty, d.name)
	g.p("")
	g.p("// %s returns the set with every flag.", d.all)
	g.p("func %s() %s { return %s }", d.all, d.name, all)
	g.p("")
	g.p("// Contains reports whether every flag of o is set in x.")
	g.p("func (x %s) Contains(o %s) bool { return x&o == o }", d.name, d.name)
	g.p("")
	g.p("// Insert returns the union of x and o.")
	g.p("func (x %s) Insert(o %s) %s { return x | o }", d.name, d.name, d.name)
	g.p("")
	g.p("// Remove returns x without the flags of o.")
	g.p("func (x %s) Remove(o %s) %s { return x &^ o }", d.name, d.name, d.name)
	g.p("")
	g.p("func (x %s) String() string {", d.name)
	g.p("var set []string")
	g.p("for i, name := range %s {", d.table)
	g.p("if x&(1<<i) != 0 {")
	g.p("set = append(set, name)")
	g.p("}")
	g.p("}")
	g.p("return \"{\" + strings.Join(set, \", \") + \"}\"")
	g.p("}")
}

func (g *generator) declResource(d *decl) {
	g.marker("resource %q has no generated methods; %s is its handle rep.", d.wit, d.name)
	g.p("type %s = codec.Handle", d.name)
	g.diag(Diagnostic{
		Severity:  SeverityWarning,
		Interface: d.owner,
		Type:      d.wit,
		Message:   "resource methods are not generated",
	})
}

func (g *generator) declAlias(d *decl) {
	target := g.goType(d.id)
	if target == d.name {
		g.marker("%q aliases itself; no declaration.", d.wit)
		return
	}
	g.p("")
	g.p("// %s is the WIT type %q.", d.name, d.wit)
	g.p("type %s = %s", d.name, target)
	g.p("")
	g.p("// %s converts %s values.", d.codec, d.name)
	g.p("var %s = %s", d.codec, g.codecExpr(d.id))
}

func qualify(owner, name string) string {
	if owner == "" {
		return strconv.Quote(name)
	}
	return strconv.Quote(owner + "." + name)
}

// flagsRep picks the smallest unsigned type holding n flag bits.
func flagsRep(n int) string {
	if n <= 32 {
		return "uint32"
	}
	return "uint64"
}

func quoteAll(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strconv.Quote(n)
	}
	return strings.Join(out, ", ")
}
