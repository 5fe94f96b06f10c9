// Package bindgen generates Go bindings for a WIT world.
//
// Generate walks every import and export of the selected world, collects
// the types they reach, and writes one Go source file holding:
//
//   - a declaration and a codec.Codec for every named type: records become
//     structs, variants sealed interfaces with one struct per case, enums
//     and flags unsigned integers with constants;
//   - for each imported interface or function, a <Name>Host interface and a
//     Register<Name>Host function that defines it on a linker.Definer;
//   - for each exported interface, a <Name>InterfaceName constant, a
//     <Name>Exports accessor and one Get<Name><Func> accessor per function
//     returning a linker.TypedFunc.
//
// Types and functions that cannot be represented (future, stream, tuples
// of more than eight elements, flags with more than 64 members) are
// replaced by a "witgen:" comment and reported as a Diagnostic; generation
// of everything else continues.
//
// Output depends only on the IR and the options, so regenerating an
// unchanged world yields identical bytes.
package bindgen
