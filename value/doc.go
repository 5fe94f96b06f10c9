// Package value is the dynamic value layer generated bindings marshal
// through.
//
// A Type is an immutable shape descriptor (record, variant, enum, flags,
// list, option, result, tuple, own/borrow and the primitives). A Value is a
// tagged dynamic value built with the constructor of its shape and read back
// with the matching As accessor; accessors report a type_mismatch error from
// the errors package when the kind differs.
//
//	point := value.RecordType(
//		value.FieldType{Name: "x", Type: value.S32Type},
//		value.FieldType{Name: "y", Type: value.S32Type},
//	)
//	v := value.Record(point, value.S32(1), value.S32(2))
//	err := value.Check(point, v)
//
// Check validates a value against a type in depth and is what the linker
// runs on every dynamic call.
package value
