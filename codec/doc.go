// Package codec provides typed converters between Go values and the dynamic
// values of package value.
//
// Generated bindings declare one Codec per named WIT type and compose the
// primitives and combinators here for everything else:
//
//	c := codec.ResultOf(codec.S32, codec.String)
//	v, _ := c.Encode(codec.Err[int32, string]("division by zero"))
//	r, _ := c.Decode(v) // r.IsErr, r.Err == "division by zero"
//
// Go representations: list<T> is []T, option<T> is *T, result<T, E> is
// Result[T, E] with Unit for a missing arm, tuple<...> is Tuple1..Tuple8,
// own<R> and borrow<R> are Handle.
package codec
