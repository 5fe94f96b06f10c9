package codec

import (
	"fmt"
	"strconv"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

// The helpers below are what generated codecs call; they keep the emitted
// code to one line per field, case or parameter.

// Expect fails with a type mismatch unless v has kind k.
func Expect(v value.Value, k value.Kind) error {
	if v.Kind() == k {
		return nil
	}
	return errors.TypeMismatch(errors.PhaseDecode, nil, v.Kind().String(), k.String())
}

// Field decodes the record field called name with c. A field the value's
// record type does not carry fails with field_missing naming it.
func Field[T any](v value.Value, name string, c Codec[T]) (T, error) {
	var zero T
	f, ok := v.Field(name)
	if !ok {
		return zero, errors.FieldMissing(errors.PhaseDecode, nil, name)
	}
	x, err := c.Decode(f)
	if err != nil {
		return zero, errors.WithPath(err, name)
	}
	return x, nil
}

// Payload decodes the payload of the case called name. A nil payload fails
// with payload_missing.
func Payload[T any](name string, p *value.Value, c Codec[T]) (T, error) {
	var zero T
	if p == nil {
		return zero, errors.PayloadMissing(errors.PhaseDecode, nil, name)
	}
	x, err := c.Decode(*p)
	if err != nil {
		return zero, errors.WithPath(err, name)
	}
	return x, nil
}

// NoPayload fails with payload_unexpected when a case declared without a
// payload arrives with one.
func NoPayload(name string, p *value.Value) error {
	if p != nil {
		return errors.PayloadUnexpected(errors.PhaseDecode, nil, name)
	}
	return nil
}

// EncodePayload encodes x as the payload of a variant case.
func EncodePayload[T any](name string, c Codec[T], x T) (*value.Value, error) {
	v, err := c.Encode(x)
	if err != nil {
		return nil, errors.WithPath(err, name)
	}
	return &v, nil
}

// BadDiscriminant reports a variant discriminant outside [0, n).
func BadDiscriminant(disc uint32, n int) error {
	return errors.InvalidDiscriminant(errors.PhaseDecode, nil, disc, n)
}

// EnumCase returns the discriminant of enum value v, failing with
// invalid_discriminant unless it is below n.
func EnumCase(v value.Value, n int) (uint32, error) {
	d, err := v.AsEnum()
	if err != nil {
		return 0, err
	}
	if int(d) >= n {
		return 0, BadDiscriminant(d, n)
	}
	return d, nil
}

// BadEnum reports an enum constant that has no case.
func BadEnum(x uint32, typeName string) error {
	return errors.InvalidEnum(errors.PhaseEncode, nil, x, typeName)
}

// FlagBits returns the raw bits of flags value v.
func FlagBits(v value.Value) (uint64, error) {
	return v.AsFlags()
}

// NotACase reports a Go value, usually nil, that is none of a variant's
// case types.
func NotACase(x any, t value.Type) error {
	return errors.InvalidVariant(errors.PhaseEncode, nil, fmt.Sprintf("%T", x), t.String())
}

// Param decodes positional parameter i.
func Param[T any](params []value.Value, i int, c Codec[T]) (T, error) {
	var zero T
	if i >= len(params) {
		return zero, errors.OutOfBounds(errors.PhaseDecode, []string{"params"}, i, len(params))
	}
	x, err := c.Decode(params[i])
	if err != nil {
		return zero, errors.WithPath(err, "param"+strconv.Itoa(i))
	}
	return x, nil
}

// SetResult encodes x into result slot i.
func SetResult[T any](results []value.Value, i int, c Codec[T], x T) error {
	if i >= len(results) {
		return errors.OutOfBounds(errors.PhaseEncode, []string{"results"}, i, len(results))
	}
	v, err := c.Encode(x)
	if err != nil {
		return errors.WithPath(err, "result"+strconv.Itoa(i))
	}
	results[i] = v
	return nil
}

// Encoder accumulates encoded record fields or tuple elements, keeping the
// first error.
type Encoder struct {
	err  error
	vals []value.Value
}

// Put encodes x with c and appends it to e. name labels the error path.
func Put[T any](e *Encoder, name string, c Codec[T], x T) {
	if e.err != nil {
		return
	}
	v, err := c.Encode(x)
	if err != nil {
		e.err = errors.WithPath(err, name)
		return
	}
	e.vals = append(e.vals, v)
}

// Record builds a record value of type t from the accumulated fields.
func (e *Encoder) Record(t value.Type) (value.Value, error) {
	if e.err != nil {
		return value.Value{}, e.err
	}
	return value.Record(t, e.vals...), nil
}

// Tuple builds a tuple value of type t from the accumulated elements.
func (e *Encoder) Tuple(t value.Type) (value.Value, error) {
	if e.err != nil {
		return value.Value{}, e.err
	}
	return value.Tuple(t, e.vals...), nil
}
