package ir

import (
	"strings"

	"github.com/wippyai/witgen/errors"
)

// Resolve is a fully linked IR: every TypeID, InterfaceID and WorldID
// inside it indexes its own tables. It is not modified after construction.
type Resolve struct {
	Types      []*TypeDef
	Interfaces []*Interface
	Worlds     []*World
}

// Type returns the TypeDef for id.
func (r *Resolve) Type(id TypeID) *TypeDef {
	return r.Types[id]
}

// Interface returns the interface for id.
func (r *Resolve) Interface(id InterfaceID) *Interface {
	return r.Interfaces[id]
}

// World returns the world for id.
func (r *Resolve) World(id WorldID) *World {
	return r.Worlds[id]
}

// Deref follows alias chains until it reaches a primitive or a non-alias
// TypeDef. A cyclic chain stops at the first repeated id.
func (r *Resolve) Deref(t Type) Type {
	seen := map[TypeID]bool{}
	for {
		id, ok := t.(TypeID)
		if !ok || seen[id] {
			return t
		}
		seen[id] = true
		alias, ok := r.Types[id].Kind.(*Alias)
		if !ok {
			return t
		}
		t = alias.Target
	}
}

// SelectWorld picks a world. A non-empty name must match exactly one world
// by bare name ("cli"), qualified name ("wasi:cli/cli@0.2.0") or qualified
// name without version. An empty name picks the only world of the root
// package, the package of the last world. Ambiguity is an error.
func (r *Resolve) SelectWorld(name string) (WorldID, error) {
	if len(r.Worlds) == 0 {
		return 0, errors.NotFound(errors.PhaseLoad, "world", name)
	}

	var matches []WorldID
	if name == "" {
		root := r.Worlds[len(r.Worlds)-1].Package
		for i, w := range r.Worlds {
			if w.Package == root {
				matches = append(matches, WorldID(i))
			}
		}
	} else {
		for i, w := range r.Worlds {
			qn := w.QualifiedName()
			unversioned, _, _ := strings.Cut(qn, "@")
			if name == w.Name || name == qn || name == unversioned {
				matches = append(matches, WorldID(i))
			}
		}
	}

	switch len(matches) {
	case 0:
		return 0, errors.NotFound(errors.PhaseLoad, "world", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, id := range matches {
			names[i] = r.Worlds[id].QualifiedName()
		}
		return 0, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(names).
			Detail("ambiguous world selection %q: candidates %s", name, strings.Join(names, ", ")).
			Build()
	}
}

// WorldNames returns the qualified names of all worlds in table order.
func (r *Resolve) WorldNames() []string {
	out := make([]string, len(r.Worlds))
	for i, w := range r.Worlds {
		out[i] = w.QualifiedName()
	}
	return out
}
