package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/witgen/errors"
)

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		pkg, name, want string
	}{
		{"wasi:io@0.2.0", "streams", "wasi:io/streams@0.2.0"},
		{"example:calc", "math", "example:calc/math"},
		{"", "inline", "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Interface{Package: tt.pkg, Name: tt.name}).QualifiedName())
			assert.Equal(t, tt.want, (&World{Package: tt.pkg, Name: tt.name}).QualifiedName())
		})
	}
}

func TestPrimitiveString(t *testing.T) {
	assert.Equal(t, "bool", Bool.String())
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "unknown", Primitive(0).String())
}

func TestResultsShape(t *testing.T) {
	anon := Returns(S32)
	assert.Equal(t, 1, anon.Len())
	assert.Equal(t, []Type{S32}, anon.Types())

	named := Results{Named: Params("q", U32, "r", U32)}
	assert.Equal(t, 2, named.Len())
	assert.Equal(t, []Type{U32, U32}, named.Types())

	assert.Equal(t, 0, Results{}.Len())
}

func TestDeref(t *testing.T) {
	b := NewBuilder()
	iface := b.Interface("ex:pkg", "types")
	point := iface.Type("point", &Record{Fields: []Field{{Name: "x", Type: S32}}})
	a1 := iface.Use("pos", point)
	a2 := iface.Type("coord", &Alias{Target: a1})
	prim := iface.Type("count", &Alias{Target: U32})

	loopA := b.Define("a", "types", nil)
	loopB := b.Define("b", "types", &Alias{Target: loopA})
	res := b.Resolve()
	res.Types[loopA].Kind = &Alias{Target: loopB}

	assert.Equal(t, Type(point), res.Deref(a2))
	assert.Equal(t, Type(point), res.Deref(point))
	assert.Equal(t, Type(U32), res.Deref(prim))
	assert.Equal(t, Type(String), res.Deref(String))
	assert.NotPanics(t, func() { res.Deref(loopA) })
}

func worlds(specs ...[2]string) *Resolve {
	b := NewBuilder()
	for _, s := range specs {
		b.World(s[0], s[1])
	}
	return b.Resolve()
}

func TestSelectWorld(t *testing.T) {
	res := worlds(
		[2]string{"wasi:cli@0.2.0", "command"},
		[2]string{"wasi:cli@0.2.0", "imports"},
		[2]string{"example:app@1.0.0", "app"},
	)

	tests := []struct {
		name    string
		want    WorldID
		wantErr errors.Kind
	}{
		{"", 2, ""},
		{"app", 2, ""},
		{"command", 0, ""},
		{"wasi:cli/imports@0.2.0", 1, ""},
		{"wasi:cli/imports", 1, ""},
		{"missing", 0, errors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			id, err := res.SelectWorld(tt.name)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, &errors.Error{Kind: tt.wantErr})
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestSelectWorldAmbiguous(t *testing.T) {
	res := worlds(
		[2]string{"example:app", "one"},
		[2]string{"example:app", "two"},
		[2]string{"other:app", "one"},
	)

	_, err := res.SelectWorld("")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = res.SelectWorld("one")
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})

	id, err := res.SelectWorld("other:app/one")
	require.NoError(t, err)
	assert.Equal(t, WorldID(2), id)

	_, err = (&Resolve{}).SelectWorld("")
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})
}

func TestBuilderWorldEntries(t *testing.T) {
	b := NewBuilder()
	math := b.Interface("example:calc@0.1.0", "math")
	math.Func("add", Params("a", S32, "b", S32), Returns(S32))
	color := b.Define("color", "calculator", &Enum{Cases: []string{"red"}})

	w := b.World("example:calc@0.1.0", "calculator").
		ImportInterface(math.ID()).
		ImportFunc("log", Params("msg", String), Results{}).
		ImportType("color", color).
		ExportFunc("run", nil, Returns(color))
	res := b.Resolve()

	world := res.World(w.ID())
	require.Len(t, world.Imports, 3)
	assert.Equal(t, "example:calc/math@0.1.0", world.Imports[0].Key)
	assert.Equal(t, InterfaceRef{ID: math.ID()}, world.Imports[0].Item)
	assert.Equal(t, "log", world.Imports[1].Key)
	assert.Equal(t, TypeRef{ID: color}, world.Imports[2].Item)

	require.Len(t, world.Exports, 1)
	fn, ok := world.Exports[0].Item.(*Function)
	require.True(t, ok)
	assert.Equal(t, "run", fn.Name)

	assert.Equal(t, []string{"example:calc/calculator@0.1.0"}, res.WorldNames())
}

func TestFromWITTypes(t *testing.T) {
	name := func(s string) *string { return &s }

	resource := &wit.TypeDef{Name: name("file"), Kind: &wit.Resource{}}
	point := &wit.TypeDef{Name: name("point"), Kind: &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.S32{}},
		{Name: "y", Type: wit.S32{}},
	}}}
	shape := &wit.TypeDef{Name: name("shape"), Kind: &wit.Variant{Cases: []wit.Case{
		{Name: "circle", Type: wit.F64{}},
		{Name: "none"},
	}}}
	perms := &wit.TypeDef{Name: name("perms"), Kind: &wit.Flags{Flags: []wit.Flag{{Name: "read"}, {Name: "write"}}}}
	color := &wit.TypeDef{Name: name("color"), Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}}}}
	points := &wit.TypeDef{Kind: &wit.List{Type: point}}
	res := &wit.TypeDef{Kind: &wit.Result{OK: points, Err: wit.String{}}}
	alias := &wit.TypeDef{Name: name("pos"), Kind: point}
	own := &wit.TypeDef{Kind: &wit.Own{Type: resource}}

	out, err := FromWIT(&wit.Resolve{TypeDefs: []*wit.TypeDef{resource, point, shape, perms, color, points, res, alias, own}})
	require.NoError(t, err)
	require.Len(t, out.Types, 9)

	assert.Equal(t, "file", out.Types[0].Name)
	assert.IsType(t, &Resource{}, out.Types[0].Kind)

	assert.Equal(t, &Record{Fields: []Field{{Name: "x", Type: S32}, {Name: "y", Type: S32}}}, out.Types[1].Kind)
	assert.Equal(t, &Variant{Cases: []Case{{Name: "circle", Type: F64}, {Name: "none"}}}, out.Types[2].Kind)
	assert.Equal(t, &Flags{Flags: []string{"read", "write"}}, out.Types[3].Kind)
	assert.Equal(t, &Enum{Cases: []string{"red"}}, out.Types[4].Kind)
	assert.Equal(t, &List{Elem: TypeID(1)}, out.Types[5].Kind)
	assert.Equal(t, &Result{OK: TypeID(5), Err: String}, out.Types[6].Kind)
	assert.Equal(t, &Alias{Target: TypeID(1)}, out.Types[7].Kind)
	assert.Equal(t, &Handle{Resource: 0}, out.Types[8].Kind)
	assert.Empty(t, out.Types[5].Name)
}

func TestFromWITFunctions(t *testing.T) {
	name := func(s string) *string { return &s }
	file := &wit.TypeDef{Name: name("file"), Kind: &wit.Resource{}}
	c := &witConverter{
		types: map[*wit.TypeDef]TypeID{file: 0},
		out:   &Resolve{Types: []*TypeDef{{Name: "file", Kind: &Resource{}}}},
	}

	tests := []struct {
		name string
		fn   *wit.Function
		want *Function
	}{
		{
			name: "anonymous result",
			fn: &wit.Function{
				Name:    "divide",
				Kind:    &wit.Freestanding{},
				Params:  []wit.Param{{Name: "a", Type: wit.S32{}}, {Name: "b", Type: wit.S32{}}},
				Results: []wit.Param{{Type: wit.S32{}}},
			},
			want: &Function{Name: "divide", Params: Params("a", S32, "b", S32), Results: Returns(S32)},
		},
		{
			name: "named results",
			fn: &wit.Function{
				Name:    "divmod",
				Kind:    &wit.Freestanding{},
				Results: []wit.Param{{Name: "q", Type: wit.U32{}}, {Name: "r", Type: wit.U32{}}},
			},
			want: &Function{Name: "divmod", Results: Results{Named: Params("q", U32, "r", U32)}},
		},
		{
			name: "no results",
			fn:   &wit.Function{Name: "log", Kind: &wit.Freestanding{}, Params: []wit.Param{{Name: "msg", Type: wit.String{}}}},
			want: &Function{Name: "log", Params: Params("msg", String)},
		},
		{
			name: "method",
			fn:   &wit.Function{Name: "[method]file.read", Kind: &wit.Method{Type: file}, Params: []wit.Param{{Name: "self", Type: file}}},
		},
		{
			name: "constructor",
			fn:   &wit.Function{Name: "[constructor]file", Kind: &wit.Constructor{Type: file}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.function(tt.fn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.function(&wit.Function{
		Name:    "open",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Name: "f", Type: &wit.TypeDef{Name: name("stray")}}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})
	assert.Equal(t, []string{"open", "f"}, err.(*errors.Error).Path)
}
