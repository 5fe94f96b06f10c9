package linker

import (
	"context"

	"github.com/wippyai/witgen/codec"
	"github.com/wippyai/witgen/errors"
	"github.com/wippyai/witgen/value"
)

// TypedFunc is a Func bound to Go parameter and result types. P is
// codec.Unit for no parameters, the parameter type for one, and a
// codec.TupleN for several; R follows the same rule for results.
type TypedFunc[P, R any] struct {
	fn       Func
	params   codec.Codec[P]
	results  codec.Codec[R]
	nparams  int
	nresults int
}

// Typed binds fn to the given codecs. nparams and nresults are the number of
// dynamic parameters and results, which tells a single tuple parameter apart
// from several parameters. The binding fails when fn's signature differs.
func Typed[P, R any](fn Func, params codec.Codec[P], nparams int, results codec.Codec[R], nresults int) (*TypedFunc[P, R], error) {
	want := FuncType{
		Params:  spread(params.Type(), nparams),
		Results: spread(results.Type(), nresults),
	}
	if got := fn.Type(); !got.Equal(want) {
		return nil, errors.SignatureMismatch(fn.Name(), got.String(), want.String())
	}
	return &TypedFunc[P, R]{
		fn:       fn,
		params:   params,
		results:  results,
		nparams:  nparams,
		nresults: nresults,
	}, nil
}

// spread turns the Go-side type into the dynamic slot types.
func spread(t value.Type, n int) []value.Type {
	switch n {
	case 0:
		return nil
	case 1:
		return []value.Type{t}
	default:
		return t.Types()
	}
}

// Func returns the underlying dynamic function.
func (f *TypedFunc[P, R]) Func() Func {
	return f.fn
}

// Call encodes p, invokes the function and decodes its results.
func (f *TypedFunc[P, R]) Call(ctx context.Context, p P) (R, error) {
	var zero R

	params, err := f.encodeParams(p)
	if err != nil {
		return zero, err
	}

	results := make([]value.Value, f.nresults)
	if err := f.fn.Call(ctx, params, results); err != nil {
		return zero, err
	}

	switch f.nresults {
	case 0:
		return f.results.Decode(value.Value{})
	case 1:
		r, err := f.results.Decode(results[0])
		if err != nil {
			return zero, errors.WithPath(err, "result0")
		}
		return r, nil
	default:
		return f.results.Decode(value.Tuple(f.results.Type(), results...))
	}
}

func (f *TypedFunc[P, R]) encodeParams(p P) ([]value.Value, error) {
	if f.nparams == 0 {
		return nil, nil
	}
	v, err := f.params.Encode(p)
	if err != nil {
		return nil, err
	}
	if f.nparams == 1 {
		return []value.Value{v}, nil
	}
	elems, err := v.AsTuple()
	if err != nil {
		return nil, err
	}
	if len(elems) != f.nparams {
		return nil, errors.OutOfBounds(errors.PhaseEncode, []string{"params"}, len(elems), f.nparams)
	}
	return elems, nil
}

// Bind looks up name in exports and binds it with Typed, failing with
// function_not_found when it is missing.
func Bind[P, R any](exports Exports, name string, params codec.Codec[P], nparams int, results codec.Codec[R], nresults int) (*TypedFunc[P, R], error) {
	fn, ok := exports.Func(name)
	if !ok {
		return nil, errors.FunctionNotFound(exports.Name(), name)
	}
	return Typed(fn, params, nparams, results, nresults)
}

// Lookup returns the exported interface called name, failing with
// interface_not_found when it is missing.
func Lookup(inst Instance, name string) (Exports, error) {
	exports, ok := inst.Exports().Instance(name)
	if !ok {
		return nil, errors.InterfaceNotFound(name)
	}
	return exports, nil
}
