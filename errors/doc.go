// Package errors provides the structured error type shared by witgen, the
// value layer and generated bindings.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the path into a nested value,
// the Go and WIT type names involved, and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("point", "x").
//		GoType("string").
//		WitType("s32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldMissing(errors.PhaseDecode, path, "x")
//	err := errors.InvalidDiscriminant(errors.PhaseDecode, path, 7, 3)
//
// Errors support errors.Is by kind. A target with an empty Phase matches
// any phase, so the Err* sentinels work across encode and decode:
//
//	if errors.Is(err, errors.ErrFieldMissing) { ... }
package errors
