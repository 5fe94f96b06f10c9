package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/witgen/errors"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"invalid", KindInvalid},
		{"bool", KindBool},
		{"s32", KindS32},
		{"string", KindString},
		{"record", KindRecord},
		{"variant", KindVariant},
		{"flags", KindFlags},
		{"borrow", KindBorrow},
		{"unknown", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.String())
		})
	}
}

func TestTypeString(t *testing.T) {
	point := RecordType(FieldType{Name: "x", Type: S32Type}, FieldType{Name: "y", Type: S32Type})

	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"primitive", U64Type, "u64"},
		{"list", ListType(U8Type), "list<u8>"},
		{"option", OptionType(StringType), "option<string>"},
		{"result both", ResultType(S32Type, StringType), "result<s32, string>"},
		{"result ok only", ResultType(S32Type, Type{}), "result<s32>"},
		{"result err only", ResultType(Type{}, StringType), "result<_, string>"},
		{"result bare", ResultType(Type{}, Type{}), "result"},
		{"tuple", TupleType(U8Type, CharType), "tuple<u8, char>"},
		{"record", point, "record { x: s32, y: s32 }"},
		{"variant", VariantType(CaseType{Name: "a", Payload: U32Type}, CaseType{Name: "b"}), "variant { a(u32), b }"},
		{"enum", EnumType("red", "green"), "enum { red, green }"},
		{"flags", FlagsType("read", "write"), "flags { read, write }"},
		{"own", OwnType("file"), "own<file>"},
		{"invalid", Type{}, "_"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.typ.String())
		})
	}
}

func TestTypeEqual(t *testing.T) {
	a := RecordType(FieldType{Name: "x", Type: ListType(S32Type)})
	b := RecordType(FieldType{Name: "x", Type: ListType(S32Type)})
	c := RecordType(FieldType{Name: "y", Type: ListType(S32Type)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, EnumType("a", "b").Equal(FlagsType("a", "b")))
	assert.False(t, OwnType("a").Equal(OwnType("b")))
	assert.True(t, Type{}.Equal(Type{}))
	assert.False(t, Type{}.Equal(BoolType))
}

func TestFlagsTypeLimit(t *testing.T) {
	names := make([]string, MaxFlags+1)
	for i := range names {
		names[i] = string(rune('a' + i%26))
	}
	assert.Panics(t, func() { FlagsType(names...) })
	assert.NotPanics(t, func() { FlagsType(names[:MaxFlags]...) })
}

func TestScalarAccessors(t *testing.T) {
	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	s8, err := S8(-5).AsS8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), s8)

	s64, err := S64(math.MinInt64).AsS64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), s64)

	f32, err := F32(1.5).AsF32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	c, err := Char('λ').AsChar()
	require.NoError(t, err)
	assert.Equal(t, 'λ', c)

	_, err = String("x").AsU32()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
}

func TestRecordField(t *testing.T) {
	point := RecordType(FieldType{Name: "x", Type: S32Type}, FieldType{Name: "y", Type: S32Type})
	v := Record(point, S32(3), S32(4))

	y, ok := v.Field("y")
	require.True(t, ok)
	n, err := y.AsS32()
	require.NoError(t, err)
	assert.Equal(t, int32(4), n)

	_, ok = v.Field("z")
	assert.False(t, ok)

	_, ok = S32(1).Field("x")
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	point := RecordType(FieldType{Name: "x", Type: S32Type}, FieldType{Name: "y", Type: S32Type})
	shape := VariantType(CaseType{Name: "circle", Payload: F64Type}, CaseType{Name: "none"})
	res := ResultType(S32Type, StringType)
	perms := FlagsType("read", "write", "execute")

	errPayload := String("boom")

	tests := []struct {
		name    string
		typ     Type
		val     Value
		wantErr *errors.Error
	}{
		{"record ok", point, Record(point, S32(1), S32(2)), nil},
		{"record wrong field type", point, Record(point, S32(1), String("2")), errors.ErrTypeMismatch},
		{"record missing field", point, Record(RecordType(FieldType{Name: "x", Type: S32Type}), S32(1)), errors.ErrFieldMissing},
		{"variant ok", shape, Variant(shape, 1, nil), nil},
		{"variant bad disc", shape, Variant(shape, 2, nil), errors.ErrInvalidDiscriminant},
		{"variant missing payload", shape, Variant(shape, 0, nil), errors.ErrPayloadMissing},
		{"variant unexpected payload", shape, Variant(shape, 1, &errPayload), errors.ErrPayloadUnexpected},
		{"result err", res, Result(res, true, &errPayload), nil},
		{"result missing payload", res, Result(res, false, nil), errors.ErrPayloadMissing},
		{"list elem", ListType(U8Type), List(ListType(U8Type), U8(1), U16(2)), errors.ErrTypeMismatch},
		{"flags in range", perms, Flags(perms, 0b101), nil},
		{"flags out of range", perms, Flags(perms, 0b1000), &errors.Error{Kind: errors.KindOutOfBounds}},
		{"enum out of range", EnumType("a"), Enum(EnumType("a"), 1), errors.ErrInvalidDiscriminant},
		{"invalid char", CharType, Char(0xD800), &errors.Error{Kind: errors.KindInvalidChar}},
		{"handle resource", OwnType("file"), Handle(OwnType("dir"), 1), errors.ErrTypeMismatch},
		{"tuple arity", TupleType(U8Type, U8Type), Tuple(TupleType(U8Type), U8(1)), errors.ErrTypeMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.typ, tc.val)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCheckPath(t *testing.T) {
	inner := RecordType(FieldType{Name: "id", Type: U32Type})
	outer := RecordType(FieldType{Name: "items", Type: ListType(inner)})

	v := Record(outer, List(ListType(inner), Record(inner, U32(1)), Record(inner, String("bad"))))

	err := Check(outer, v)
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"items", "1", "id"}, e.Path)
}

func TestEqual(t *testing.T) {
	opt := OptionType(StringType)
	assert.True(t, Equal(Some(opt, String("a")), Some(opt, String("a"))))
	assert.False(t, Equal(Some(opt, String("a")), None(opt)))
	assert.False(t, Equal(U32(1), U64(1)))
	assert.True(t, Equal(F64(math.NaN()), F64(math.NaN())))
}
