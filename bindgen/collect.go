package bindgen

import (
	"maps"
	"slices"

	"github.com/wippyai/witgen/ir"
)

// collect walks every import and export of the world and returns each
// reachable TypeID once, sorted so output order does not depend on
// traversal order.
func (g *generator) collect() []ir.TypeID {
	seen := map[ir.TypeID]bool{}

	var visit func(t ir.Type)
	visit = func(t ir.Type) {
		id, ok := t.(ir.TypeID)
		if !ok || seen[id] {
			return
		}
		seen[id] = true

		switch k := g.res.Type(id).Kind.(type) {
		case *ir.Record:
			for _, f := range k.Fields {
				visit(f.Type)
			}
		case *ir.Variant:
			for _, c := range k.Cases {
				visit(c.Type)
			}
		case *ir.List:
			visit(k.Elem)
		case *ir.Option:
			visit(k.Elem)
		case *ir.Result:
			visit(k.OK)
			visit(k.Err)
		case *ir.Tuple:
			for _, t := range k.Types {
				visit(t)
			}
		case *ir.Alias:
			visit(k.Target)
		case *ir.Handle:
			// the handle needs no declaration, its resource does
			visit(k.Resource)
		}
	}

	function := func(f *ir.Function) {
		for _, p := range f.Params {
			visit(p.Type)
		}
		for _, t := range f.Results.Types() {
			visit(t)
		}
	}

	for _, entries := range [][]ir.WorldEntry{g.world.Imports, g.world.Exports} {
		for _, e := range entries {
			switch item := e.Item.(type) {
			case *ir.Function:
				function(item)
			case ir.InterfaceRef:
				iface := g.res.Interface(item.ID)
				for _, nt := range iface.Types {
					visit(nt.ID)
				}
				for _, f := range iface.Functions {
					function(f)
				}
			case ir.TypeRef:
				visit(item.ID)
			}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
