package ir

// Builder assembles a Resolve programmatically. It is used by tests and by
// tools that construct IR without a WIT source.
type Builder struct {
	res *Resolve
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{res: &Resolve{}}
}

// Resolve returns the assembled IR. The builder must not be used afterwards.
func (b *Builder) Resolve() *Resolve {
	return b.res
}

// Define adds a named type owned by owner.
func (b *Builder) Define(name, owner string, k Kind) TypeID {
	b.res.Types = append(b.res.Types, &TypeDef{Name: name, Owner: owner, Kind: k})
	return TypeID(len(b.res.Types) - 1)
}

// Anon adds an anonymous type.
func (b *Builder) Anon(k Kind) TypeID {
	return b.Define("", "", k)
}

func (b *Builder) List(elem Type) TypeID { return b.Anon(&List{Elem: elem}) }
func (b *Builder) Option(elem Type) TypeID { return b.Anon(&Option{Elem: elem}) }
func (b *Builder) Result(ok, err Type) TypeID { return b.Anon(&Result{OK: ok, Err: err}) }
func (b *Builder) Tuple(types ...Type) TypeID { return b.Anon(&Tuple{Types: types}) }
func (b *Builder) Own(resource TypeID) TypeID { return b.Anon(&Handle{Resource: resource}) }
func (b *Builder) Borrow(resource TypeID) TypeID { return b.Anon(&Handle{Resource: resource, Borrow: true}) }

// Interface adds an interface. pkg is "ns:pkg" or "ns:pkg@version".
func (b *Builder) Interface(pkg, name string) *InterfaceBuilder {
	b.res.Interfaces = append(b.res.Interfaces, &Interface{Name: name, Package: pkg})
	return &InterfaceBuilder{b: b, id: InterfaceID(len(b.res.Interfaces) - 1)}
}

// World adds a world.
func (b *Builder) World(pkg, name string) *WorldBuilder {
	b.res.Worlds = append(b.res.Worlds, &World{Name: name, Package: pkg})
	return &WorldBuilder{b: b, id: WorldID(len(b.res.Worlds) - 1)}
}

// InterfaceBuilder adds members to one interface.
type InterfaceBuilder struct {
	b  *Builder
	id InterfaceID
}

// ID returns the interface id.
func (ib *InterfaceBuilder) ID() InterfaceID { return ib.id }

func (ib *InterfaceBuilder) iface() *Interface { return ib.b.res.Interfaces[ib.id] }

// Type declares a named type in the interface.
func (ib *InterfaceBuilder) Type(name string, k Kind) TypeID {
	iface := ib.iface()
	id := ib.b.Define(name, iface.Name, k)
	iface.Types = append(iface.Types, NamedType{Name: name, ID: id})
	return id
}

// Use declares name in the interface as an alias of target, the way a WIT
// "use" statement does.
func (ib *InterfaceBuilder) Use(name string, target TypeID) TypeID {
	return ib.Type(name, &Alias{Target: target})
}

// Func adds a function.
func (ib *InterfaceBuilder) Func(name string, params []Param, results Results) *InterfaceBuilder {
	iface := ib.iface()
	iface.Functions = append(iface.Functions, &Function{Name: name, Params: params, Results: results})
	return ib
}

// WorldBuilder adds imports and exports to one world.
type WorldBuilder struct {
	b  *Builder
	id WorldID
}

// ID returns the world id.
func (wb *WorldBuilder) ID() WorldID { return wb.id }

func (wb *WorldBuilder) world() *World { return wb.b.res.Worlds[wb.id] }

func (wb *WorldBuilder) ifaceEntry(id InterfaceID) WorldEntry {
	return WorldEntry{Key: wb.b.res.Interfaces[id].QualifiedName(), Item: InterfaceRef{ID: id}}
}

func (wb *WorldBuilder) ImportInterface(id InterfaceID) *WorldBuilder {
	w := wb.world()
	w.Imports = append(w.Imports, wb.ifaceEntry(id))
	return wb
}

func (wb *WorldBuilder) ExportInterface(id InterfaceID) *WorldBuilder {
	w := wb.world()
	w.Exports = append(w.Exports, wb.ifaceEntry(id))
	return wb
}

func (wb *WorldBuilder) ImportFunc(name string, params []Param, results Results) *WorldBuilder {
	w := wb.world()
	w.Imports = append(w.Imports, WorldEntry{Key: name, Item: &Function{Name: name, Params: params, Results: results}})
	return wb
}

func (wb *WorldBuilder) ExportFunc(name string, params []Param, results Results) *WorldBuilder {
	w := wb.world()
	w.Exports = append(w.Exports, WorldEntry{Key: name, Item: &Function{Name: name, Params: params, Results: results}})
	return wb
}

// ImportType declares a world-level type.
func (wb *WorldBuilder) ImportType(name string, id TypeID) *WorldBuilder {
	w := wb.world()
	w.Imports = append(w.Imports, WorldEntry{Key: name, Item: TypeRef{ID: id}})
	return wb
}

// Params is shorthand for a parameter list of alternating names and types.
func Params(pairs ...any) []Param {
	out := make([]Param, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Param{Name: pairs[i].(string), Type: pairs[i+1].(Type)})
	}
	return out
}

// Returns is shorthand for a single anonymous result.
func Returns(t Type) Results {
	return Results{Anon: t}
}
