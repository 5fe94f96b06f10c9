package codec

import (
	"strconv"

	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

// TupleN types are the Go form of tuple<...> up to arity 8. Field Fi holds
// element i.

type tupleCodec[T any] struct {
	typ value.Type
	dec func(d *tupleDecoder) T
	enc func(e *Encoder, x T)
}

func (c tupleCodec[T]) Type() value.Type { return c.typ }

func (c tupleCodec[T]) Decode(v value.Value) (T, error) {
	var zero T
	elems, err := v.AsTuple()
	if err != nil {
		return zero, err
	}
	if len(elems) != len(c.typ.Types()) {
		return zero, errors.TypeMismatch(errors.PhaseDecode, nil, v.Type().String(), c.typ.String())
	}
	d := &tupleDecoder{vals: elems}
	x := c.dec(d)
	if d.err != nil {
		return zero, d.err
	}
	return x, nil
}

func (c tupleCodec[T]) Encode(x T) (value.Value, error) {
	var e Encoder
	c.enc(&e, x)
	return e.Tuple(c.typ)
}

type tupleDecoder struct {
	err  error
	vals []value.Value
	next int
}

func take[T any](d *tupleDecoder, c Codec[T]) T {
	var zero T
	if d.err != nil {
		return zero
	}
	i := d.next
	d.next++
	x, err := c.Decode(d.vals[i])
	if err != nil {
		d.err = errors.WithPath(err, strconv.Itoa(i))
		return zero
	}
	return x
}

type Tuple1[A any] struct {
	F0 A
}

// Tuple1Of returns the codec for tuple<A>.
func Tuple1Of[A any](a Codec[A]) Codec[Tuple1[A]] {
	return tupleCodec[Tuple1[A]]{
		typ: value.TupleType(a.Type()),
		dec: func(st *tupleDecoder) (x Tuple1[A]) {
			x.F0 = take(st, a)
			return x
		},
		enc: func(out *Encoder, x Tuple1[A]) {
			Put(out, "0", a, x.F0)
		},
	}
}

type Tuple2[A, B any] struct {
	F0 A
	F1 B
}

// Tuple2Of returns the codec for tuple<A, B>.
func Tuple2Of[A, B any](a Codec[A], b Codec[B]) Codec[Tuple2[A, B]] {
	return tupleCodec[Tuple2[A, B]]{
		typ: value.TupleType(a.Type(), b.Type()),
		dec: func(st *tupleDecoder) (x Tuple2[A, B]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			return x
		},
		enc: func(out *Encoder, x Tuple2[A, B]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
		},
	}
}

type Tuple3[A, B, C any] struct {
	F0 A
	F1 B
	F2 C
}

// Tuple3Of returns the codec for tuple<A, B, C>.
func Tuple3Of[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[Tuple3[A, B, C]] {
	return tupleCodec[Tuple3[A, B, C]]{
		typ: value.TupleType(a.Type(), b.Type(), c.Type()),
		dec: func(st *tupleDecoder) (x Tuple3[A, B, C]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			x.F2 = take(st, c)
			return x
		},
		enc: func(out *Encoder, x Tuple3[A, B, C]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
			Put(out, "2", c, x.F2)
		},
	}
}

type Tuple4[A, B, C, D any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
}

// Tuple4Of returns the codec for tuple<A, B, C, D>.
func Tuple4Of[A, B, C, D any](a Codec[A], b Codec[B], c Codec[C], d Codec[D]) Codec[Tuple4[A, B, C, D]] {
	return tupleCodec[Tuple4[A, B, C, D]]{
		typ: value.TupleType(a.Type(), b.Type(), c.Type(), d.Type()),
		dec: func(st *tupleDecoder) (x Tuple4[A, B, C, D]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			x.F2 = take(st, c)
			x.F3 = take(st, d)
			return x
		},
		enc: func(out *Encoder, x Tuple4[A, B, C, D]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
			Put(out, "2", c, x.F2)
			Put(out, "3", d, x.F3)
		},
	}
}

type Tuple5[A, B, C, D, E any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
}

// Tuple5Of returns the codec for tuple<A, B, C, D, E>.
func Tuple5Of[A, B, C, D, E any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E]) Codec[Tuple5[A, B, C, D, E]] {
	return tupleCodec[Tuple5[A, B, C, D, E]]{
		typ: value.TupleType(a.Type(), b.Type(), c.Type(), d.Type(), e.Type()),
		dec: func(st *tupleDecoder) (x Tuple5[A, B, C, D, E]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			x.F2 = take(st, c)
			x.F3 = take(st, d)
			x.F4 = take(st, e)
			return x
		},
		enc: func(out *Encoder, x Tuple5[A, B, C, D, E]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
			Put(out, "2", c, x.F2)
			Put(out, "3", d, x.F3)
			Put(out, "4", e, x.F4)
		},
	}
}

type Tuple6[A, B, C, D, E, F any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
}

// Tuple6Of returns the codec for tuple<A, B, C, D, E, F>.
func Tuple6Of[A, B, C, D, E, F any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F]) Codec[Tuple6[A, B, C, D, E, F]] {
	return tupleCodec[Tuple6[A, B, C, D, E, F]]{
		typ: value.TupleType(a.Type(), b.Type(), c.Type(), d.Type(), e.Type(), f.Type()),
		dec: func(st *tupleDecoder) (x Tuple6[A, B, C, D, E, F]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			x.F2 = take(st, c)
			x.F3 = take(st, d)
			x.F4 = take(st, e)
			x.F5 = take(st, f)
			return x
		},
		enc: func(out *Encoder, x Tuple6[A, B, C, D, E, F]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
			Put(out, "2", c, x.F2)
			Put(out, "3", d, x.F3)
			Put(out, "4", e, x.F4)
			Put(out, "5", f, x.F5)
		},
	}
}

type Tuple7[A, B, C, D, E, F, G any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
	F6 G
}

// Tuple7Of returns the codec for tuple<A, B, C, D, E, F, G>.
func Tuple7Of[A, B, C, D, E, F, G any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F], g Codec[G]) Codec[Tuple7[A, B, C, D, E, F, G]] {
	return tupleCodec[Tuple7[A, B, C, D, E, F, G]]{
		typ: value.TupleType(a.Type(), b.Type(), c.Type(), d.Type(), e.Type(), f.Type(), g.Type()),
		dec: func(st *tupleDecoder) (x Tuple7[A, B, C, D, E, F, G]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			x.F2 = take(st, c)
			x.F3 = take(st, d)
			x.F4 = take(st, e)
			x.F5 = take(st, f)
			x.F6 = take(st, g)
			return x
		},
		enc: func(out *Encoder, x Tuple7[A, B, C, D, E, F, G]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
			Put(out, "2", c, x.F2)
			Put(out, "3", d, x.F3)
			Put(out, "4", e, x.F4)
			Put(out, "5", f, x.F5)
			Put(out, "6", g, x.F6)
		},
	}
}

type Tuple8[A, B, C, D, E, F, G, H any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
	F6 G
	F7 H
}

// Tuple8Of returns the codec for tuple<A, B, C, D, E, F, G, H>.
func Tuple8Of[A, B, C, D, E, F, G, H any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F], g Codec[G], h Codec[H]) Codec[Tuple8[A, B, C, D, E, F, G, H]] {
	return tupleCodec[Tuple8[A, B, C, D, E, F, G, H]]{
		typ: value.TupleType(a.Type(), b.Type(), c.Type(), d.Type(), e.Type(), f.Type(), g.Type(), h.Type()),
		dec: func(st *tupleDecoder) (x Tuple8[A, B, C, D, E, F, G, H]) {
			x.F0 = take(st, a)
			x.F1 = take(st, b)
			x.F2 = take(st, c)
			x.F3 = take(st, d)
			x.F4 = take(st, e)
			x.F5 = take(st, f)
			x.F6 = take(st, g)
			x.F7 = take(st, h)
			return x
		},
		enc: func(out *Encoder, x Tuple8[A, B, C, D, E, F, G, H]) {
			Put(out, "0", a, x.F0)
			Put(out, "1", b, x.F1)
			Put(out, "2", c, x.F2)
			Put(out, "3", d, x.F3)
			Put(out, "4", e, x.F4)
			Put(out, "5", f, x.F5)
			Put(out, "6", g, x.F6)
			Put(out, "7", h, x.F7)
		},
	}
}
