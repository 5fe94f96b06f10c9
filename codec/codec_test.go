package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

func roundTrip[T any](t *testing.T, c Codec[T], x T) {
	t.Helper()
	v, err := c.Encode(x)
	require.NoError(t, err)
	require.NoError(t, value.Check(c.Type(), v))
	assert.True(t, c.Type().Equal(v.Type()), "encoded type %s, want %s", v.Type(), c.Type())
	got, err := c.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, x, got)
}

func TestPrimitiveRoundTrip(t *testing.T) {
	t.Run("bool", func(t *testing.T) { roundTrip(t, Bool, true) })
	t.Run("u8", func(t *testing.T) { roundTrip(t, U8, uint8(255)) })
	t.Run("u16", func(t *testing.T) { roundTrip(t, U16, uint16(65535)) })
	t.Run("u32", func(t *testing.T) { roundTrip(t, U32, uint32(1<<31)) })
	t.Run("u64", func(t *testing.T) { roundTrip(t, U64, uint64(1<<63)) })
	t.Run("s8", func(t *testing.T) { roundTrip(t, S8, int8(-128)) })
	t.Run("s16", func(t *testing.T) { roundTrip(t, S16, int16(-300)) })
	t.Run("s32", func(t *testing.T) { roundTrip(t, S32, int32(-70000)) })
	t.Run("s64", func(t *testing.T) { roundTrip(t, S64, int64(-1<<62)) })
	t.Run("f32", func(t *testing.T) { roundTrip(t, F32, float32(3.25)) })
	t.Run("f64", func(t *testing.T) { roundTrip(t, F64, 2.5e-10) })
	t.Run("char", func(t *testing.T) { roundTrip(t, Char, '🦀') })
	t.Run("string", func(t *testing.T) { roundTrip(t, String, "héllo") })
}

func TestCharRejectsSurrogate(t *testing.T) {
	_, err := Char.Encode(0xD800)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidChar})

	_, err = Char.Decode(value.Char(0xDFFF))
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidChar})
}

func TestCombinatorRoundTrip(t *testing.T) {
	t.Run("list", func(t *testing.T) { roundTrip(t, List(S32), []int32{1, -2, 3}) })
	t.Run("nested list", func(t *testing.T) { roundTrip(t, List(List(String)), [][]string{{"a"}, {"b", "c"}}) })
	t.Run("empty list", func(t *testing.T) { roundTrip(t, List(U8), []uint8(nil)) })

	n := uint32(7)
	t.Run("option some", func(t *testing.T) { roundTrip(t, Option(U32), &n) })
	t.Run("option none", func(t *testing.T) { roundTrip(t, Option(U32), (*uint32)(nil)) })

	t.Run("result ok", func(t *testing.T) { roundTrip(t, ResultOf(S32, String), Ok[int32, string](5)) })
	t.Run("result err", func(t *testing.T) { roundTrip(t, ResultOf(S32, String), Err[int32]("bad")) })
	t.Run("result no ok payload", func(t *testing.T) { roundTrip(t, ResultOf(Void, String), Ok[Unit, string](Unit{})) })
	t.Run("result no err payload", func(t *testing.T) { roundTrip(t, ResultOf(String, Void), Err[string](Unit{})) })

	t.Run("tuple2", func(t *testing.T) {
		roundTrip(t, Tuple2Of(S32, String), Tuple2[int32, string]{F0: 1, F1: "x"})
	})
	t.Run("tuple8", func(t *testing.T) {
		c := Tuple8Of(U8, U16, U32, U64, S8, S16, S32, S64)
		roundTrip(t, c, Tuple8[uint8, uint16, uint32, uint64, int8, int16, int32, int64]{1, 2, 3, 4, -5, -6, -7, -8})
	})
	t.Run("own", func(t *testing.T) { roundTrip(t, Own("file"), Handle(42)) })
	t.Run("borrow", func(t *testing.T) { roundTrip(t, Borrow("file"), Handle(7)) })
}

func TestDivideByZeroResult(t *testing.T) {
	c := ResultOf(S32, String)

	v, err := c.Encode(Err[int32]("division by zero"))
	require.NoError(t, err)

	isErr, p, err := v.AsResult()
	require.NoError(t, err)
	require.True(t, isErr)
	require.NotNil(t, p)
	s, err := p.AsString()
	require.NoError(t, err)
	assert.Equal(t, "division by zero", s)

	got, err := c.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, Err[int32]("division by zero"), got)
}

func TestResultPayloadErrors(t *testing.T) {
	c := ResultOf(S32, Void)
	extra := value.String("x")

	_, err := c.Decode(value.Result(c.Type(), true, &extra))
	assert.ErrorIs(t, err, errors.ErrPayloadUnexpected)

	_, err = c.Decode(value.Result(c.Type(), false, nil))
	assert.ErrorIs(t, err, errors.ErrPayloadMissing)
}

func TestDecodeTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"list from string", func() error { _, err := List(U8).Decode(value.String("x")); return err }},
		{"option from u32", func() error { _, err := Option(U8).Decode(value.U32(1)); return err }},
		{"result from bool", func() error { _, err := ResultOf(U8, U8).Decode(value.Bool(true)); return err }},
		{"own from borrow", func() error { _, err := Own("r").Decode(value.Handle(value.BorrowType("r"), 1)); return err }},
		{"tuple arity", func() error {
			_, err := Tuple2Of(U8, U8).Decode(value.Tuple(value.TupleType(value.U8Type), value.U8(1)))
			return err
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.fn(), errors.ErrTypeMismatch)
		})
	}
}

func TestErrorPath(t *testing.T) {
	v := value.List(value.ListType(value.StringType), value.String("ok"), value.U8(1))

	_, err := List(String).Decode(v)
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"1"}, e.Path)
}

func TestFieldHelpers(t *testing.T) {
	point := value.RecordType(value.FieldType{Name: "x", Type: value.S32Type})
	rec := value.Record(point, value.S32(9))

	x, err := Field(rec, "x", S32)
	require.NoError(t, err)
	assert.Equal(t, int32(9), x)

	_, err = Field(rec, "y", S32)
	require.ErrorIs(t, err, errors.ErrFieldMissing)
	assert.Contains(t, err.Error(), `"y"`)

	_, err = Field(rec, "x", String)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"x"}, e.Path)
}

func TestVariantHelpers(t *testing.T) {
	p := value.F64(1)

	_, err := Payload("circle", nil, F64)
	assert.ErrorIs(t, err, errors.ErrPayloadMissing)

	got, err := Payload("circle", &p, F64)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	assert.ErrorIs(t, NoPayload("none", &p), errors.ErrPayloadUnexpected)
	assert.NoError(t, NoPayload("none", nil))

	assert.ErrorIs(t, BadDiscriminant(3, 3), errors.ErrInvalidDiscriminant)
}

func TestEnumCase(t *testing.T) {
	colors := value.EnumType("red", "green", "blue")

	for d := uint32(0); d < 3; d++ {
		got, err := EnumCase(value.Enum(colors, d), 3)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	_, err := EnumCase(value.Enum(colors, 3), 3)
	assert.ErrorIs(t, err, errors.ErrInvalidDiscriminant)
}

func TestParamAndSetResult(t *testing.T) {
	params := []value.Value{value.S32(10), value.S32(0)}

	a, err := Param(params, 0, S32)
	require.NoError(t, err)
	assert.Equal(t, int32(10), a)

	_, err = Param(params, 2, S32)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindOutOfBounds})

	_, err = Param(params, 1, String)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)

	results := make([]value.Value, 1)
	require.NoError(t, SetResult(results, 0, String, "done"))
	s, err := results[0].AsString()
	require.NoError(t, err)
	assert.Equal(t, "done", s)

	assert.Error(t, SetResult(results, 1, String, "x"))
}

func TestEncoderKeepsFirstError(t *testing.T) {
	var e Encoder
	Put(&e, "a", Char, rune(0xD800))
	Put(&e, "b", S32, 1)

	_, err := e.Record(value.RecordType())
	require.Error(t, err)

	var se *errors.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"a"}, se.Path)
}
