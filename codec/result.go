package codec

import (
	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

// Result is the Go form of result<T, E>. A missing arm uses Unit.
type Result[T, E any] struct {
	OK    T
	Err   E
	IsErr bool
}

// Ok returns a successful result.
func Ok[T, E any](x T) Result[T, E] {
	return Result[T, E]{OK: x}
}

// Err returns a failed result.
func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{Err: e, IsErr: true}
}

type resultCodec[T, E any] struct {
	ok  Codec[T]
	err Codec[E]
}

// ResultOf returns the codec for result<T, E>. Pass Void for an arm that
// carries no payload.
func ResultOf[T, E any](ok Codec[T], err Codec[E]) Codec[Result[T, E]] {
	return resultCodec[T, E]{ok: ok, err: err}
}

func (c resultCodec[T, E]) Type() value.Type {
	return value.ResultType(c.ok.Type(), c.err.Type())
}

func (c resultCodec[T, E]) Decode(v value.Value) (Result[T, E], error) {
	isErr, p, err := v.AsResult()
	if err != nil {
		return Result[T, E]{}, err
	}
	if isErr {
		e, err := decodeArm(c.err, "err", p)
		return Result[T, E]{Err: e, IsErr: true}, err
	}
	x, err := decodeArm(c.ok, "ok", p)
	return Result[T, E]{OK: x}, err
}

func (c resultCodec[T, E]) Encode(r Result[T, E]) (value.Value, error) {
	var (
		p   *value.Value
		err error
	)
	if r.IsErr {
		p, err = encodeArm(c.err, "err", r.Err)
	} else {
		p, err = encodeArm(c.ok, "ok", r.OK)
	}
	if err != nil {
		return value.Value{}, err
	}
	return value.Result(c.Type(), r.IsErr, p), nil
}

func decodeArm[T any](c Codec[T], name string, p *value.Value) (T, error) {
	var zero T
	if !c.Type().Valid() {
		if p != nil {
			return zero, errors.PayloadUnexpected(errors.PhaseDecode, nil, name)
		}
		return zero, nil
	}
	return Payload(name, p, c)
}

func encodeArm[T any](c Codec[T], name string, x T) (*value.Value, error) {
	if !c.Type().Valid() {
		return nil, nil
	}
	v, err := c.Encode(x)
	if err != nil {
		return nil, errors.WithPath(err, name)
	}
	return &v, nil
}
