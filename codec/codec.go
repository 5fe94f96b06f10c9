package codec

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

// Codec converts between a Go type and its dynamic value form. Type returns
// the descriptor every Encode result is built from, so
// Decode(Encode(x)) == x for every x Encode accepts.
type Codec[T any] interface {
	Type() value.Type
	Decode(v value.Value) (T, error)
	Encode(x T) (value.Value, error)
}

// Unit is the Go form of "no value": a missing result arm, or the
// parameters of a function that takes none.
type Unit = struct{}

// Handle is the Go form of own<R> and borrow<R>: the rep of the resource.
type Handle uint32

type scalar[T any] struct {
	typ value.Type
	dec func(value.Value) (T, error)
	enc func(T) value.Value
}

func (c scalar[T]) Type() value.Type { return c.typ }

func (c scalar[T]) Decode(v value.Value) (T, error) { return c.dec(v) }

func (c scalar[T]) Encode(x T) (value.Value, error) { return c.enc(x), nil }

// Primitive codecs.
var (
	Bool   Codec[bool]    = scalar[bool]{value.BoolType, value.Value.AsBool, value.Bool}
	U8     Codec[uint8]   = scalar[uint8]{value.U8Type, value.Value.AsU8, value.U8}
	U16    Codec[uint16]  = scalar[uint16]{value.U16Type, value.Value.AsU16, value.U16}
	U32    Codec[uint32]  = scalar[uint32]{value.U32Type, value.Value.AsU32, value.U32}
	U64    Codec[uint64]  = scalar[uint64]{value.U64Type, value.Value.AsU64, value.U64}
	S8     Codec[int8]    = scalar[int8]{value.S8Type, value.Value.AsS8, value.S8}
	S16    Codec[int16]   = scalar[int16]{value.S16Type, value.Value.AsS16, value.S16}
	S32    Codec[int32]   = scalar[int32]{value.S32Type, value.Value.AsS32, value.S32}
	S64    Codec[int64]   = scalar[int64]{value.S64Type, value.Value.AsS64, value.S64}
	F32    Codec[float32] = scalar[float32]{value.F32Type, value.Value.AsF32, value.F32}
	F64    Codec[float64] = scalar[float64]{value.F64Type, value.Value.AsF64, value.F64}
	String Codec[string]  = scalar[string]{value.StringType, value.Value.AsString, value.String}
	Char   Codec[rune]    = charCodec{}
	Void   Codec[Unit]    = voidCodec{}
)

type charCodec struct{}

func (charCodec) Type() value.Type { return value.CharType }

func (charCodec) Decode(v value.Value) (rune, error) {
	r, err := v.AsChar()
	if err != nil {
		return 0, err
	}
	if !utf8.ValidRune(r) {
		return 0, errors.InvalidChar(errors.PhaseDecode, nil, r)
	}
	return r, nil
}

func (charCodec) Encode(r rune) (value.Value, error) {
	if !utf8.ValidRune(r) {
		return value.Value{}, errors.InvalidChar(errors.PhaseEncode, nil, r)
	}
	return value.Char(r), nil
}

// voidCodec has no descriptor; combinators treat its slot as empty.
type voidCodec struct{}

func (voidCodec) Type() value.Type { return value.Type{} }

func (voidCodec) Decode(value.Value) (Unit, error) { return Unit{}, nil }

func (voidCodec) Encode(Unit) (value.Value, error) { return value.Value{}, nil }

type listCodec[T any] struct {
	elem Codec[T]
}

// List returns the codec for list<T>. An empty list decodes to a nil slice.
func List[T any](elem Codec[T]) Codec[[]T] {
	return listCodec[T]{elem: elem}
}

func (c listCodec[T]) Type() value.Type { return value.ListType(c.elem.Type()) }

func (c listCodec[T]) Decode(v value.Value) ([]T, error) {
	elems, err := v.AsList()
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, nil
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		if out[i], err = c.elem.Decode(e); err != nil {
			return nil, errors.WithPath(err, strconv.Itoa(i))
		}
	}
	return out, nil
}

func (c listCodec[T]) Encode(xs []T) (value.Value, error) {
	elems := make([]value.Value, len(xs))
	for i, x := range xs {
		e, err := c.elem.Encode(x)
		if err != nil {
			return value.Value{}, errors.WithPath(err, strconv.Itoa(i))
		}
		elems[i] = e
	}
	return value.List(c.Type(), elems...), nil
}

type optionCodec[T any] struct {
	elem Codec[T]
}

// Option returns the codec for option<T>, represented as *T.
func Option[T any](elem Codec[T]) Codec[*T] {
	return optionCodec[T]{elem: elem}
}

func (c optionCodec[T]) Type() value.Type { return value.OptionType(c.elem.Type()) }

func (c optionCodec[T]) Decode(v value.Value) (*T, error) {
	p, err := v.AsOption()
	if err != nil || p == nil {
		return nil, err
	}
	x, err := c.elem.Decode(*p)
	if err != nil {
		return nil, errors.WithPath(err, "some")
	}
	return &x, nil
}

func (c optionCodec[T]) Encode(x *T) (value.Value, error) {
	t := c.Type()
	if x == nil {
		return value.None(t), nil
	}
	e, err := c.elem.Encode(*x)
	if err != nil {
		return value.Value{}, errors.WithPath(err, "some")
	}
	return value.Some(t, e), nil
}

// Own returns the codec for own<resource>.
func Own(resource string) Codec[Handle] {
	return handleCodec{typ: value.OwnType(resource)}
}

// Borrow returns the codec for borrow<resource>.
func Borrow(resource string) Codec[Handle] {
	return handleCodec{typ: value.BorrowType(resource)}
}

type handleCodec struct {
	typ value.Type
}

func (c handleCodec) Type() value.Type { return c.typ }

func (c handleCodec) Decode(v value.Value) (Handle, error) {
	if v.Kind() != c.typ.Kind() {
		return 0, errors.TypeMismatch(errors.PhaseDecode, nil, v.Kind().String(), c.typ.String())
	}
	rep, err := v.AsHandle()
	return Handle(rep), err
}

func (c handleCodec) Encode(h Handle) (value.Value, error) {
	return value.Handle(c.typ, uint32(h)), nil
}
