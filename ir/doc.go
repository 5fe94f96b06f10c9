// Package ir is the resolved interface-definition model the generator
// reads: a type table addressed by TypeID, interfaces, and worlds with
// ordered imports and exports.
//
// IR comes from go.bytecodealliance.org/wit through LoadWIT, LoadJSON,
// ParseWIT or FromWIT, or is assembled with a Builder:
//
//	b := ir.NewBuilder()
//	math := b.Interface("example:calc@0.1.0", "math")
//	res := b.Result(ir.S32, ir.String)
//	math.Func("divide", ir.Params("a", ir.S32, "b", ir.S32), ir.Returns(res))
//	b.World("example:calc@0.1.0", "calculator").ImportInterface(math.ID())
//
// The model is read-only once built.
package ir
