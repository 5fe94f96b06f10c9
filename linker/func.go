package linker

import (
	"context"
	"strings"

	"github.com/wippyai/witgen/value"
)

// HostFunc handles a dynamic call. It reads params and writes one value per
// declared result into results.
type HostFunc func(ctx context.Context, params, results []value.Value) error

// FuncType is the dynamic signature of a function.
type FuncType struct {
	Params  []value.Type
	Results []value.Type
}

// Equal reports whether both signatures have the same parameter and result
// types.
func (ft FuncType) Equal(o FuncType) bool {
	return typesEqual(ft.Params, o.Params) && typesEqual(ft.Results, o.Results)
}

func typesEqual(a, b []value.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String renders the signature, e.g. "func(s32, s32) -> result<s32, string>".
func (ft FuncType) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range ft.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	switch len(ft.Results) {
	case 0:
	case 1:
		b.WriteString(" -> ")
		b.WriteString(ft.Results[0].String())
	default:
		b.WriteString(" -> (")
		for i, r := range ft.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Definer registers host functions. Generated Register*Host functions take
// a Definer so any runtime backend can receive them.
type Definer interface {
	// Root is the namespace of world-level functions.
	Root() InstanceDefiner
	// DefineInstance returns the namespace of an imported interface such as
	// "wasi:io/streams@0.2.0", creating it if needed.
	DefineInstance(name string) (InstanceDefiner, error)
}

// InstanceDefiner registers functions into one namespace.
type InstanceDefiner interface {
	DefineFunc(name string, ft FuncType, fn HostFunc) error
}

// Instance is an instantiated component as seen by generated export
// accessors.
type Instance interface {
	Exports() Exports
}

// Exports is one level of an instance's export tree: the root, or an
// exported interface.
type Exports interface {
	Name() string
	Instance(name string) (Exports, bool)
	Func(name string) (Func, bool)
}

// Func is a callable export.
type Func interface {
	Name() string
	Type() FuncType
	Call(ctx context.Context, params, results []value.Value) error
}
