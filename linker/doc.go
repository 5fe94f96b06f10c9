// Package linker is the registration and lookup surface generated bindings
// are written against.
//
// # Main Types
//
//   - Definer, InstanceDefiner: where Register*Host functions define
//     host functions
//   - Instance, Exports, Func: where Get* accessors look up exports
//   - TypedFunc: a Func bound to Go parameter and result types
//   - Linker: an in-process Definer built on a versioned Namespace tree
//
// # Thread Safety
//
// Linker and Namespace are safe for concurrent definition and lookup.
//
// # Import Resolution
//
// Namespace paths follow WIT naming: "wasi:io/streams@0.2.0#read". With
// SemverMatching enabled a versioned segment falls back to the highest
// caret-compatible version that is defined.
//
// # Example
//
//	l := linker.NewWithDefaults()
//	_ = bindings.RegisterMathHost(l, impl)
//	inst := l.Instantiate()
//	divide, _ := bindings.GetMathDivide(inst)
//	r, _ := divide.Call(ctx, codec.Tuple2[int32, int32]{F0: 10, F1: 0})
package linker
