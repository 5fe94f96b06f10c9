package ir

import "strings"

// TypeID indexes Resolve.Types. Two equal TypeIDs are the same type.
type TypeID int

// InterfaceID indexes Resolve.Interfaces.
type InterfaceID int

// WorldID indexes Resolve.Worlds.
type WorldID int

// Type is a reference to a type: a Primitive or a TypeID. A nil Type means
// "absent", used for result arms and payload-less variant cases.
type Type interface {
	isType()
}

// Primitive is a built-in scalar or string type.
type Primitive uint8

const (
	Bool Primitive = iota + 1
	U8
	U16
	U32
	U64
	S8
	S16
	S32
	S64
	F32
	F64
	Char
	String
)

var primitiveNames = [...]string{
	Bool:   "bool",
	U8:     "u8",
	U16:    "u16",
	U32:    "u32",
	U64:    "u64",
	S8:     "s8",
	S16:    "s16",
	S32:    "s32",
	S64:    "s64",
	F32:    "f32",
	F64:    "f64",
	Char:   "char",
	String: "string",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) && primitiveNames[p] != "" {
		return primitiveNames[p]
	}
	return "unknown"
}

func (Primitive) isType() {}
func (TypeID) isType()    {}

// TypeDef is one entry of the type table.
type TypeDef struct {
	Kind Kind
	// Name is empty for anonymous types such as list<u8>.
	Name string
	// Owner is the name of the interface or world that declares the type.
	Owner string
}

// Kind is the structural kind of a TypeDef.
type Kind interface {
	isKind()
}

type Record struct {
	Fields []Field
}

type Field struct {
	Type Type
	Name string
}

type Variant struct {
	Cases []Case
}

// Case is a variant case; Type is nil when it carries no payload.
type Case struct {
	Type Type
	Name string
}

type Enum struct {
	Cases []string
}

type Flags struct {
	Flags []string
}

type List struct {
	Elem Type
}

type Option struct {
	Elem Type
}

// Result is result<OK, Err>; a nil arm carries no payload.
type Result struct {
	OK  Type
	Err Type
}

type Tuple struct {
	Types []Type
}

// Alias makes a named TypeDef stand for another type, as produced by
// "type a = b" and by "use" imports.
type Alias struct {
	Target Type
}

type Resource struct{}

// Handle is own<R> or borrow<R> for resource R.
type Handle struct {
	Resource TypeID
	Borrow   bool
}

// Unsupported stands for a kind bindings cannot be generated for, such as
// future or stream.
type Unsupported struct {
	What string
}

func (*Record) isKind()      {}
func (*Variant) isKind()     {}
func (*Enum) isKind()        {}
func (*Flags) isKind()       {}
func (*List) isKind()        {}
func (*Option) isKind()      {}
func (*Result) isKind()      {}
func (*Tuple) isKind()       {}
func (*Alias) isKind()       {}
func (*Resource) isKind()    {}
func (*Handle) isKind()      {}
func (*Unsupported) isKind() {}

// NamedType is a type declared in an interface.
type NamedType struct {
	Name string
	ID   TypeID
}

// Interface is a named collection of types and functions.
type Interface struct {
	// Name is empty for an interface declared inline in a world.
	Name string
	// Package is "ns:pkg" or "ns:pkg@version", empty for inline interfaces.
	Package   string
	Types     []NamedType
	Functions []*Function
}

// QualifiedName returns "ns:pkg/name@version", or just the name when the
// interface has no package.
func (i *Interface) QualifiedName() string {
	return qualify(i.Package, i.Name)
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	base, version, versioned := strings.Cut(pkg, "@")
	if !versioned {
		return base + "/" + name
	}
	return base + "/" + name + "@" + version
}

// Function is a freestanding function.
type Function struct {
	Name    string
	Params  []Param
	Results Results
}

type Param struct {
	Type Type
	Name string
}

// Results is either one anonymous type or zero or more named results.
type Results struct {
	Anon  Type
	Named []Param
}

// Len returns the number of result values.
func (r Results) Len() int {
	if r.Anon != nil {
		return 1
	}
	return len(r.Named)
}

// Types returns the result types in order.
func (r Results) Types() []Type {
	if r.Anon != nil {
		return []Type{r.Anon}
	}
	out := make([]Type, len(r.Named))
	for i, p := range r.Named {
		out[i] = p.Type
	}
	return out
}

// World describes one component boundary.
type World struct {
	Name    string
	Package string
	Imports []WorldEntry
	Exports []WorldEntry
}

// QualifiedName returns "ns:pkg/world@version".
func (w *World) QualifiedName() string {
	return qualify(w.Package, w.Name)
}

// WorldEntry is one import or export, in declaration order. Key is the
// function name, the interface name for inline interfaces, or the qualified
// interface name.
type WorldEntry struct {
	Item WorldItem
	Key  string
}

// WorldItem is *Function, InterfaceRef or TypeRef.
type WorldItem interface {
	isWorldItem()
}

type InterfaceRef struct {
	ID InterfaceID
}

type TypeRef struct {
	ID TypeID
}

func (*Function) isWorldItem()    {}
func (InterfaceRef) isWorldItem() {}
func (TypeRef) isWorldItem()      {}
