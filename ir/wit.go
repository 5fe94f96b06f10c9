package ir

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/witgen/errors"
)

// LoadWIT parses a WIT file or directory and converts the result.
func LoadWIT(path string) (*Resolve, error) {
	res, err := wit.LoadWIT(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "load WIT "+path)
	}
	return FromWIT(res)
}

// LoadJSON reads a resolve JSON document produced by wasm-tools.
func LoadJSON(path string) (*Resolve, error) {
	res, err := wit.LoadJSON(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "load JSON "+path)
	}
	return FromWIT(res)
}

// ParseWIT parses inline WIT source text.
func ParseWIT(src string) (*Resolve, error) {
	dir, err := os.MkdirTemp("", "witgen-*")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "inline.wit")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "write inline WIT")
	}
	return LoadWIT(path)
}

// FromWIT converts a resolved wit graph. Resource methods, constructors and
// static functions are skipped; future, stream and any kind added to wit
// later become Unsupported.
func FromWIT(src *wit.Resolve) (*Resolve, error) {
	c := &witConverter{
		src:    src,
		types:  make(map[*wit.TypeDef]TypeID, len(src.TypeDefs)),
		ifaces: make(map[*wit.Interface]InterfaceID, len(src.Interfaces)),
		out:    &Resolve{},
	}
	return c.convert()
}

type witConverter struct {
	src    *wit.Resolve
	types  map[*wit.TypeDef]TypeID
	ifaces map[*wit.Interface]InterfaceID
	out    *Resolve
}

func (c *witConverter) convert() (*Resolve, error) {
	for i, td := range c.src.TypeDefs {
		c.types[td] = TypeID(i)
		c.out.Types = append(c.out.Types, &TypeDef{Name: deref(td.Name), Owner: ownerName(td.Owner)})
	}
	for i, td := range c.src.TypeDefs {
		k, err := c.kind(td)
		if err != nil {
			return nil, err
		}
		c.out.Types[i].Kind = k
	}

	for i, iface := range c.src.Interfaces {
		c.ifaces[iface] = InterfaceID(i)
	}
	for _, iface := range c.src.Interfaces {
		out, err := c.iface(iface)
		if err != nil {
			return nil, err
		}
		c.out.Interfaces = append(c.out.Interfaces, out)
	}

	for _, w := range c.src.Worlds {
		out, err := c.world(w)
		if err != nil {
			return nil, err
		}
		c.out.Worlds = append(c.out.Worlds, out)
	}
	return c.out, nil
}

func (c *witConverter) kind(td *wit.TypeDef) (Kind, error) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		fields := make([]Field, len(k.Fields))
		for i, f := range k.Fields {
			t, err := c.typ(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Type: t}
		}
		return &Record{Fields: fields}, nil
	case *wit.Variant:
		cases := make([]Case, len(k.Cases))
		for i, cs := range k.Cases {
			t, err := c.optType(cs.Type)
			if err != nil {
				return nil, err
			}
			cases[i] = Case{Name: cs.Name, Type: t}
		}
		return &Variant{Cases: cases}, nil
	case *wit.Enum:
		names := make([]string, len(k.Cases))
		for i, cs := range k.Cases {
			names[i] = cs.Name
		}
		return &Enum{Cases: names}, nil
	case *wit.Flags:
		names := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			names[i] = f.Name
		}
		return &Flags{Flags: names}, nil
	case *wit.List:
		t, err := c.typ(k.Type)
		return &List{Elem: t}, err
	case *wit.Option:
		t, err := c.typ(k.Type)
		return &Option{Elem: t}, err
	case *wit.Result:
		ok, err := c.optType(k.OK)
		if err != nil {
			return nil, err
		}
		e, err := c.optType(k.Err)
		return &Result{OK: ok, Err: e}, err
	case *wit.Tuple:
		types := make([]Type, len(k.Types))
		for i, t := range k.Types {
			ct, err := c.typ(t)
			if err != nil {
				return nil, err
			}
			types[i] = ct
		}
		return &Tuple{Types: types}, nil
	case *wit.Resource:
		return &Resource{}, nil
	case *wit.Own:
		return c.handle(k.Type, false)
	case *wit.Borrow:
		return c.handle(k.Type, true)
	case wit.Type:
		t, err := c.typ(k)
		return &Alias{Target: t}, err
	default:
		what := strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", k), "*wit."))
		Logger().Debug("unsupported type kind", zap.String("type", deref(td.Name)), zap.String("kind", what))
		return &Unsupported{What: what}, nil
	}
}

func (c *witConverter) handle(res *wit.TypeDef, borrow bool) (Kind, error) {
	id, ok := c.types[res]
	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "resource", deref(res.Name))
	}
	return &Handle{Resource: id, Borrow: borrow}, nil
}

func (c *witConverter) optType(t wit.Type) (Type, error) {
	if t == nil {
		return nil, nil
	}
	return c.typ(t)
}

func (c *witConverter) typ(t wit.Type) (Type, error) {
	switch t := t.(type) {
	case *wit.TypeDef:
		id, ok := c.types[t]
		if !ok {
			return nil, errors.NotFound(errors.PhaseLoad, "type", deref(t.Name))
		}
		return id, nil
	case wit.Bool:
		return Bool, nil
	case wit.U8:
		return U8, nil
	case wit.U16:
		return U16, nil
	case wit.U32:
		return U32, nil
	case wit.U64:
		return U64, nil
	case wit.S8:
		return S8, nil
	case wit.S16:
		return S16, nil
	case wit.S32:
		return S32, nil
	case wit.S64:
		return S64, nil
	case wit.F32:
		return F32, nil
	case wit.F64:
		return F64, nil
	case wit.Char:
		return Char, nil
	case wit.String:
		return String, nil
	default:
		return nil, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("type %T", t))
	}
}

func (c *witConverter) iface(src *wit.Interface) (*Interface, error) {
	out := &Interface{Name: deref(src.Name)}
	if src.Package != nil {
		out.Package = src.Package.Name.String()
	}
	for name, td := range src.TypeDefs.All() {
		out.Types = append(out.Types, NamedType{Name: name, ID: c.types[td]})
	}
	for _, f := range src.Functions.All() {
		fn, err := c.function(f)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			out.Functions = append(out.Functions, fn)
		}
	}
	return out, nil
}

func (c *witConverter) world(src *wit.World) (*World, error) {
	out := &World{Name: src.Name}
	if src.Package != nil {
		out.Package = src.Package.Name.String()
	}
	var err error
	if out.Imports, err = c.entries(src.Imports.All()); err != nil {
		return nil, err
	}
	if out.Exports, err = c.entries(src.Exports.All()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *witConverter) entries(items iter.Seq2[string, wit.WorldItem]) ([]WorldEntry, error) {
	var out []WorldEntry
	for key, item := range items {
		switch item := item.(type) {
		case *wit.InterfaceRef:
			id, ok := c.ifaces[item.Interface]
			if !ok {
				return nil, errors.NotFound(errors.PhaseLoad, "interface", key)
			}
			if iface := c.out.Interfaces[id]; iface.Name != "" {
				key = iface.QualifiedName()
			} else {
				// inline interfaces are addressed by their import name
				iface.Name = key
				iface.Package = ""
			}
			out = append(out, WorldEntry{Key: key, Item: InterfaceRef{ID: id}})
		case *wit.TypeDef:
			out = append(out, WorldEntry{Key: key, Item: TypeRef{ID: c.types[item]}})
		case *wit.Function:
			fn, err := c.function(item)
			if err != nil {
				return nil, err
			}
			if fn != nil {
				out = append(out, WorldEntry{Key: fn.Name, Item: fn})
			}
		}
	}
	return out, nil
}

// function converts a freestanding function; resource members return nil.
func (c *witConverter) function(f *wit.Function) (*Function, error) {
	if !f.IsFreestanding() {
		Logger().Debug("skipping resource function", zap.String("func", f.Name))
		return nil, nil
	}
	out := &Function{Name: f.Name}
	for _, p := range f.Params {
		t, err := c.typ(p.Type)
		if err != nil {
			return nil, errors.WithPath(err, f.Name, p.Name)
		}
		out.Params = append(out.Params, Param{Name: p.Name, Type: t})
	}
	results, err := c.results(f.Results)
	if err != nil {
		return nil, errors.WithPath(err, f.Name)
	}
	out.Results = results
	return out, nil
}

// results converts a result list: one unnamed param is an anonymous
// result, anything else is a list of named results.
func (c *witConverter) results(params []wit.Param) (Results, error) {
	if len(params) == 1 && params[0].Name == "" {
		anon, err := c.typ(params[0].Type)
		return Results{Anon: anon}, err
	}
	var out Results
	for _, p := range params {
		t, err := c.typ(p.Type)
		if err != nil {
			return Results{}, errors.WithPath(err, p.Name)
		}
		out.Named = append(out.Named, Param{Name: p.Name, Type: t})
	}
	return out, nil
}

func ownerName(owner wit.TypeOwner) string {
	switch o := owner.(type) {
	case *wit.Interface:
		return deref(o.Name)
	case *wit.World:
		return o.Name
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
