// Package witgen generates Go bindings for WebAssembly Component Model
// worlds described in WIT.
//
// Given a resolved WIT package, witgen emits one Go file per world holding
// Go types for the world's records, variants, enums and flags, a host
// interface plus registration function for every import, and typed
// accessors for every export. Generated code talks to the component through
// a small dynamic layer, so any runtime that can define host functions and
// look up exports can drive it.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	witgen/              Root package with one-call generation helpers
//	├── ir/              Resolved WIT model: types, interfaces, worlds
//	├── bindgen/         Go source generator
//	├── value/           Dynamic component values and type descriptors
//	├── codec/           Go <-> value conversions used by generated code
//	├── linker/          Host function namespaces and export lookup
//	├── errors/          Structured error types for debugging
//	├── internal/config/ witgen.toml / witgen.yaml project files
//	├── internal/driver/ Target loading, parallel generation, watch mode
//	└── cmd/witgen/      Command-line interface
//
// # Quick Start
//
// Generate bindings for a world:
//
//	res, err := witgen.GenerateFile("wit", "calculator", bindgen.Options{Package: "calculator"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range res.Diagnostics {
//	    log.Println(d)
//	}
//	os.WriteFile("calculator/bindings.go", res.Source, 0o644)
//
// Serve the generated host interface and call an export:
//
//	l := linker.NewWithDefaults()
//	if err := calculator.RegisterMathHost(l, mathHost{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	run, err := calculator.GetRun(inst)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := run.Call(ctx, "10 / 2")
//
// # Type Mapping
//
//   - Primitives: bool, u8-u64, s8-s64, f32, f64, char (rune), string
//   - Compound: list<T> ([]T), option<T> (*T), result<T, E> (codec.Result),
//     tuple<...> (codec.TupleN)
//   - Named: record (struct), variant (sealed interface), enum (uint32),
//     flags (uint32 or uint64 bit set)
//   - Resources: own<R> and borrow<R> as codec.Handle; methods are not
//     generated
//
// Anything that cannot be represented is replaced by a "// witgen:" marker
// comment in the output and reported as a diagnostic.
//
// # Command Line
//
//	witgen generate wit/ --world calculator -o calculator/bindings.go
//	witgen generate              # every target of ./witgen.toml
//	witgen generate --watch      # regenerate on WIT changes
//	witgen worlds wit/
//	witgen browse wit/
//
// See examples/calculator for a complete host program.
package witgen
