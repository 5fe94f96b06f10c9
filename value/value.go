package value

import (
	"math"

	"github.com/wippyai/witgen/errors"
)

// Value is a dynamic tagged value. Scalars carry their kind only; compound
// values carry the Type they were built with. The zero Value is invalid.
type Value struct {
	typ     Type
	str     string
	elems   []Value
	payload *Value
	num     uint64
	kind    Kind
	set     bool
}

// Bool returns a bool value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

func U8(x uint8) Value   { return Value{kind: KindU8, num: uint64(x)} }
func U16(x uint16) Value { return Value{kind: KindU16, num: uint64(x)} }
func U32(x uint32) Value { return Value{kind: KindU32, num: uint64(x)} }
func U64(x uint64) Value { return Value{kind: KindU64, num: x} }
func S8(x int8) Value    { return Value{kind: KindS8, num: uint64(x)} }
func S16(x int16) Value  { return Value{kind: KindS16, num: uint64(x)} }
func S32(x int32) Value  { return Value{kind: KindS32, num: uint64(x)} }
func S64(x int64) Value  { return Value{kind: KindS64, num: uint64(x)} }

func F32(x float32) Value { return Value{kind: KindF32, num: uint64(math.Float32bits(x))} }
func F64(x float64) Value { return Value{kind: KindF64, num: math.Float64bits(x)} }

// Char returns a char value. Check rejects runes that are not Unicode
// scalar values.
func Char(r rune) Value { return Value{kind: KindChar, num: uint64(uint32(r))} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List returns a list value of list type t.
func List(t Type, elems ...Value) Value {
	return Value{kind: KindList, typ: t, elems: elems}
}

// Some returns option type t holding x.
func Some(t Type, x Value) Value {
	return Value{kind: KindOption, typ: t, payload: &x, set: true}
}

// None returns the empty value of option type t.
func None(t Type) Value {
	return Value{kind: KindOption, typ: t}
}

// Result returns a value of result type t. payload is nil when the selected
// arm carries nothing.
func Result(t Type, isErr bool, payload *Value) Value {
	return Value{kind: KindResult, typ: t, set: isErr, payload: payload}
}

// Record returns a record value of type t with field values in declaration
// order.
func Record(t Type, fields ...Value) Value {
	return Value{kind: KindRecord, typ: t, elems: fields}
}

// Variant returns case disc of variant type t.
func Variant(t Type, disc uint32, payload *Value) Value {
	return Value{kind: KindVariant, typ: t, num: uint64(disc), payload: payload}
}

// Enum returns case disc of enum type t.
func Enum(t Type, disc uint32) Value {
	return Value{kind: KindEnum, typ: t, num: uint64(disc)}
}

// Flags returns a flags value of type t; bit i set means flag i is present.
func Flags(t Type, bits uint64) Value {
	return Value{kind: KindFlags, typ: t, num: bits}
}

// Tuple returns a tuple value of type t.
func Tuple(t Type, elems ...Value) Value {
	return Value{kind: KindTuple, typ: t, elems: elems}
}

// Handle returns an own or borrow value of type t for the given rep.
func Handle(t Type, rep uint32) Value {
	return Value{kind: t.Kind(), typ: t, num: uint64(rep)}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v holds a value.
func (v Value) Valid() bool { return v.kind != KindInvalid }

// Type returns the type of v. Scalars report their primitive descriptor.
func (v Value) Type() Type {
	switch v.kind {
	case KindBool:
		return BoolType
	case KindU8:
		return U8Type
	case KindU16:
		return U16Type
	case KindU32:
		return U32Type
	case KindU64:
		return U64Type
	case KindS8:
		return S8Type
	case KindS16:
		return S16Type
	case KindS32:
		return S32Type
	case KindS64:
		return S64Type
	case KindF32:
		return F32Type
	case KindF64:
		return F64Type
	case KindChar:
		return CharType
	case KindString:
		return StringType
	default:
		return v.typ
	}
}

func (v Value) expect(k Kind) error {
	if v.kind == k {
		return nil
	}
	return errors.TypeMismatch(errors.PhaseDecode, nil, v.kind.String(), k.String())
}

func (v Value) AsBool() (bool, error) {
	if err := v.expect(KindBool); err != nil {
		return false, err
	}
	return v.num != 0, nil
}

func (v Value) AsU8() (uint8, error) {
	if err := v.expect(KindU8); err != nil {
		return 0, err
	}
	return uint8(v.num), nil
}

func (v Value) AsU16() (uint16, error) {
	if err := v.expect(KindU16); err != nil {
		return 0, err
	}
	return uint16(v.num), nil
}

func (v Value) AsU32() (uint32, error) {
	if err := v.expect(KindU32); err != nil {
		return 0, err
	}
	return uint32(v.num), nil
}

func (v Value) AsU64() (uint64, error) {
	if err := v.expect(KindU64); err != nil {
		return 0, err
	}
	return v.num, nil
}

func (v Value) AsS8() (int8, error) {
	if err := v.expect(KindS8); err != nil {
		return 0, err
	}
	return int8(v.num), nil
}

func (v Value) AsS16() (int16, error) {
	if err := v.expect(KindS16); err != nil {
		return 0, err
	}
	return int16(v.num), nil
}

func (v Value) AsS32() (int32, error) {
	if err := v.expect(KindS32); err != nil {
		return 0, err
	}
	return int32(v.num), nil
}

func (v Value) AsS64() (int64, error) {
	if err := v.expect(KindS64); err != nil {
		return 0, err
	}
	return int64(v.num), nil
}

func (v Value) AsF32() (float32, error) {
	if err := v.expect(KindF32); err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v.num)), nil
}

func (v Value) AsF64() (float64, error) {
	if err := v.expect(KindF64); err != nil {
		return 0, err
	}
	return math.Float64frombits(v.num), nil
}

func (v Value) AsChar() (rune, error) {
	if err := v.expect(KindChar); err != nil {
		return 0, err
	}
	return rune(uint32(v.num)), nil
}

func (v Value) AsString() (string, error) {
	if err := v.expect(KindString); err != nil {
		return "", err
	}
	return v.str, nil
}

// AsList returns the elements of a list. The slice must not be modified.
func (v Value) AsList() ([]Value, error) {
	if err := v.expect(KindList); err != nil {
		return nil, err
	}
	return v.elems, nil
}

// AsOption returns the held value, or nil for none.
func (v Value) AsOption() (*Value, error) {
	if err := v.expect(KindOption); err != nil {
		return nil, err
	}
	if !v.set {
		return nil, nil
	}
	return v.payload, nil
}

// AsResult reports which arm is set and its payload, nil when that arm
// carries nothing.
func (v Value) AsResult() (isErr bool, payload *Value, err error) {
	if err := v.expect(KindResult); err != nil {
		return false, nil, err
	}
	return v.set, v.payload, nil
}

// AsRecord returns the field values in declaration order.
func (v Value) AsRecord() ([]Value, error) {
	if err := v.expect(KindRecord); err != nil {
		return nil, err
	}
	return v.elems, nil
}

// Field returns the record field called name. It reports false when v is
// not a record or its type has no such field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	i := v.typ.FieldIndex(name)
	if i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i], true
}

// AsVariant returns the discriminant and payload of a variant.
func (v Value) AsVariant() (disc uint32, payload *Value, err error) {
	if err := v.expect(KindVariant); err != nil {
		return 0, nil, err
	}
	return uint32(v.num), v.payload, nil
}

// AsEnum returns the discriminant of an enum.
func (v Value) AsEnum() (uint32, error) {
	if err := v.expect(KindEnum); err != nil {
		return 0, err
	}
	return uint32(v.num), nil
}

// AsFlags returns the flag bits.
func (v Value) AsFlags() (uint64, error) {
	if err := v.expect(KindFlags); err != nil {
		return 0, err
	}
	return v.num, nil
}

// AsTuple returns the tuple elements. The slice must not be modified.
func (v Value) AsTuple() ([]Value, error) {
	if err := v.expect(KindTuple); err != nil {
		return nil, err
	}
	return v.elems, nil
}

// AsHandle returns the rep of an own or borrow value.
func (v Value) AsHandle() (uint32, error) {
	if !v.kind.IsHandle() {
		return 0, errors.TypeMismatch(errors.PhaseDecode, nil, v.kind.String(), "own or borrow")
	}
	return uint32(v.num), nil
}

// Equal reports deep equality of two values, types included. Floats compare
// by bit pattern so NaN payloads round-trip.
func Equal(a, b Value) bool {
	if a.kind != b.kind || a.num != b.num || a.str != b.str || a.set != b.set {
		return false
	}
	if !a.kind.IsPrimitive() && !a.typ.Equal(b.typ) {
		return false
	}
	if len(a.elems) != len(b.elems) {
		return false
	}
	for i := range a.elems {
		if !Equal(a.elems[i], b.elems[i]) {
			return false
		}
	}
	if (a.payload == nil) != (b.payload == nil) {
		return false
	}
	return a.payload == nil || Equal(*a.payload, *b.payload)
}
