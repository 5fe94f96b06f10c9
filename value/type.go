package value

import (
	"strings"
)

// Type describes the shape of a dynamic value. Types are immutable and safe
// to share; the zero Type is invalid and stands for "no type", for example
// a missing result arm or a variant case without payload.
type Type struct {
	d *desc
}

type desc struct {
	name   string
	elem   Type
	ok     Type
	err    Type
	types  []Type
	fields []FieldType
	cases  []CaseType
	names  []string
	kind   Kind
}

// FieldType is one named field of a record type.
type FieldType struct {
	Name string
	Type Type
}

// CaseType is one case of a variant type. A zero Payload means the case
// carries no payload.
type CaseType struct {
	Name    string
	Payload Type
}

// MaxFlags is the largest number of flags a flags type can hold.
const MaxFlags = 64

func prim(k Kind) Type { return Type{&desc{kind: k}} }

// Primitive type descriptors.
var (
	BoolType   = prim(KindBool)
	U8Type     = prim(KindU8)
	U16Type    = prim(KindU16)
	U32Type    = prim(KindU32)
	U64Type    = prim(KindU64)
	S8Type     = prim(KindS8)
	S16Type    = prim(KindS16)
	S32Type    = prim(KindS32)
	S64Type    = prim(KindS64)
	F32Type    = prim(KindF32)
	F64Type    = prim(KindF64)
	CharType   = prim(KindChar)
	StringType = prim(KindString)
)

// RecordType returns a record type with fields in declaration order.
func RecordType(fields ...FieldType) Type {
	return Type{&desc{kind: KindRecord, fields: append([]FieldType(nil), fields...)}}
}

// VariantType returns a variant type. The discriminant of a case is its
// index.
func VariantType(cases ...CaseType) Type {
	return Type{&desc{kind: KindVariant, cases: append([]CaseType(nil), cases...)}}
}

// EnumType returns an enum type. The discriminant of a case is its index.
func EnumType(names ...string) Type {
	return Type{&desc{kind: KindEnum, names: append([]string(nil), names...)}}
}

// FlagsType returns a flags type. Flag i occupies bit i. It panics when
// more than MaxFlags names are given.
func FlagsType(names ...string) Type {
	if len(names) > MaxFlags {
		panic("value: flags type with more than 64 flags")
	}
	return Type{&desc{kind: KindFlags, names: append([]string(nil), names...)}}
}

// ListType returns list<elem>.
func ListType(elem Type) Type {
	return Type{&desc{kind: KindList, elem: elem}}
}

// OptionType returns option<elem>.
func OptionType(elem Type) Type {
	return Type{&desc{kind: KindOption, elem: elem}}
}

// ResultType returns result<ok, err>. A zero ok or err marks that arm as
// carrying no payload.
func ResultType(ok, err Type) Type {
	return Type{&desc{kind: KindResult, ok: ok, err: err}}
}

// TupleType returns tuple<types...>.
func TupleType(types ...Type) Type {
	return Type{&desc{kind: KindTuple, types: append([]Type(nil), types...)}}
}

// OwnType returns own<resource>.
func OwnType(resource string) Type {
	return Type{&desc{kind: KindOwn, name: resource}}
}

// BorrowType returns borrow<resource>.
func BorrowType(resource string) Type {
	return Type{&desc{kind: KindBorrow, name: resource}}
}

// Valid reports whether t describes a type.
func (t Type) Valid() bool { return t.d != nil }

// Kind returns the structural kind, KindInvalid for the zero Type.
func (t Type) Kind() Kind {
	if t.d == nil {
		return KindInvalid
	}
	return t.d.kind
}

// Elem returns the element type of a list or option.
func (t Type) Elem() Type {
	if t.d == nil {
		return Type{}
	}
	return t.d.elem
}

// OK returns the ok arm of a result type.
func (t Type) OK() Type {
	if t.d == nil {
		return Type{}
	}
	return t.d.ok
}

// Err returns the err arm of a result type.
func (t Type) Err() Type {
	if t.d == nil {
		return Type{}
	}
	return t.d.err
}

// Types returns the element types of a tuple. The slice must not be
// modified.
func (t Type) Types() []Type {
	if t.d == nil {
		return nil
	}
	return t.d.types
}

// Fields returns the fields of a record. The slice must not be modified.
func (t Type) Fields() []FieldType {
	if t.d == nil {
		return nil
	}
	return t.d.fields
}

// Cases returns the cases of a variant. The slice must not be modified.
func (t Type) Cases() []CaseType {
	if t.d == nil {
		return nil
	}
	return t.d.cases
}

// Names returns the case names of an enum or the flag names of a flags
// type. The slice must not be modified.
func (t Type) Names() []string {
	if t.d == nil {
		return nil
	}
	return t.d.names
}

// Resource returns the resource name of an own or borrow type.
func (t Type) Resource() string {
	if t.d == nil {
		return ""
	}
	return t.d.name
}

// FieldIndex returns the position of the named record field, or -1.
func (t Type) FieldIndex(name string) int {
	for i, f := range t.Fields() {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether t and o describe the same shape, including names of
// fields, cases and flags.
func (t Type) Equal(o Type) bool {
	if t.d == o.d {
		return true
	}
	if t.d == nil || o.d == nil || t.d.kind != o.d.kind {
		return false
	}
	a, b := t.d, o.d
	switch a.kind {
	case KindList, KindOption:
		return a.elem.Equal(b.elem)
	case KindResult:
		return a.ok.Equal(b.ok) && a.err.Equal(b.err)
	case KindTuple:
		if len(a.types) != len(b.types) {
			return false
		}
		for i := range a.types {
			if !a.types[i].Equal(b.types[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !a.fields[i].Type.Equal(b.fields[i].Type) {
				return false
			}
		}
		return true
	case KindVariant:
		if len(a.cases) != len(b.cases) {
			return false
		}
		for i := range a.cases {
			if a.cases[i].Name != b.cases[i].Name || !a.cases[i].Payload.Equal(b.cases[i].Payload) {
				return false
			}
		}
		return true
	case KindEnum, KindFlags:
		if len(a.names) != len(b.names) {
			return false
		}
		for i := range a.names {
			if a.names[i] != b.names[i] {
				return false
			}
		}
		return true
	case KindOwn, KindBorrow:
		return a.name == b.name
	default:
		return true
	}
}

// String renders t in WIT syntax, e.g. "result<list<u8>, string>".
func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	if t.d == nil {
		b.WriteByte('_')
		return
	}
	d := t.d
	switch d.kind {
	case KindList, KindOption:
		b.WriteString(d.kind.String())
		b.WriteByte('<')
		d.elem.write(b)
		b.WriteByte('>')
	case KindResult:
		b.WriteString("result")
		if !d.ok.Valid() && !d.err.Valid() {
			return
		}
		b.WriteByte('<')
		d.ok.write(b)
		if d.err.Valid() {
			b.WriteString(", ")
			d.err.write(b)
		}
		b.WriteByte('>')
	case KindTuple:
		b.WriteString("tuple<")
		for i, e := range d.types {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte('>')
	case KindRecord:
		b.WriteString("record { ")
		for i, f := range d.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Type.write(b)
		}
		b.WriteString(" }")
	case KindVariant:
		b.WriteString("variant { ")
		for i, c := range d.cases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
			if c.Payload.Valid() {
				b.WriteByte('(')
				c.Payload.write(b)
				b.WriteByte(')')
			}
		}
		b.WriteString(" }")
	case KindEnum, KindFlags:
		b.WriteString(d.kind.String())
		b.WriteString(" { ")
		b.WriteString(strings.Join(d.names, ", "))
		b.WriteString(" }")
	case KindOwn, KindBorrow:
		b.WriteString(d.kind.String())
		b.WriteByte('<')
		b.WriteString(d.name)
		b.WriteByte('>')
	default:
		b.WriteString(d.kind.String())
	}
}
