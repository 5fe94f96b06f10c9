package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGenerate Phase = "generate" // binding generation
	PhaseEncode   Phase = "encode"   // Go to dynamic value
	PhaseDecode   Phase = "decode"   // dynamic value to Go
	PhaseValidate Phase = "validate" // value/descriptor validation
	PhaseLinking  Phase = "linking"  // host function registration
	PhaseLookup   Phase = "lookup"   // export lookup on an instance
	PhaseCall     Phase = "call"     // dynamic call dispatch
	PhaseLoad     Phase = "load"     // IR loading
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch        Kind = "type_mismatch"
	KindFieldMissing        Kind = "field_missing"
	KindPayloadMissing      Kind = "payload_missing"
	KindPayloadUnexpected   Kind = "payload_unexpected"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindInvalidEnum         Kind = "invalid_enum"
	KindInvalidVariant      Kind = "invalid_variant"
	KindInvalidChar         Kind = "invalid_char"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindUnsupported         Kind = "unsupported"
	KindNotFound            Kind = "not_found"
	KindFunctionNotFound    Kind = "function_not_found"
	KindInterfaceNotFound   Kind = "interface_not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindRegistration        Kind = "registration"
	KindDuplicate           Kind = "duplicate"
	KindSignature           Kind = "signature_mismatch"
)

// Error is the structured error type shared by the value layer, the
// generated bindings and the generator itself.
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WitType != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.WitType != "":
			b.WriteString("expected ")
			b.WriteString(e.WitType)
			b.WriteString(", got ")
			b.WriteString(e.GoType)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("WIT type ")
			b.WriteString(e.WitType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Kind-only sentinels for errors.Is checks that do not care about phase.
var (
	ErrTypeMismatch        = &Error{Kind: KindTypeMismatch}
	ErrFieldMissing        = &Error{Kind: KindFieldMissing}
	ErrPayloadMissing      = &Error{Kind: KindPayloadMissing}
	ErrPayloadUnexpected   = &Error{Kind: KindPayloadUnexpected}
	ErrInvalidDiscriminant = &Error{Kind: KindInvalidDiscriminant}
	ErrFunctionNotFound    = &Error{Kind: KindFunctionNotFound}
	ErrInterfaceNotFound   = &Error{Kind: KindInterfaceNotFound}
)

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error. got is the kind of the value
// that was found, want the WIT shape that was expected.
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  got,
		WitType: want,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Value:  fieldName,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// PayloadMissing reports a variant case that declares a payload but
// arrived without one.
func PayloadMissing(phase Phase, path []string, caseName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPayloadMissing,
		Path:   path,
		Value:  caseName,
		Detail: fmt.Sprintf("case %q requires a payload", caseName),
	}
}

// PayloadUnexpected reports a payload on a variant case that declares none.
func PayloadUnexpected(phase Phase, path []string, caseName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPayloadUnexpected,
		Path:   path,
		Value:  caseName,
		Detail: fmt.Sprintf("case %q carries no payload", caseName),
	}
}

// InvalidDiscriminant creates an invalid discriminant error for variants/enums
func InvalidDiscriminant(phase Phase, path []string, disc uint32, cases int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidDiscriminant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (%d cases)", disc, cases),
		Value:  disc,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindInvalidEnum,
		Path:    path,
		WitType: enumType,
		Detail:  fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:   value,
	}
}

// InvalidVariant reports a Go value that is not one of a variant's cases.
func InvalidVariant(phase Phase, path []string, goType, variantType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindInvalidVariant,
		Path:    path,
		GoType:  goType,
		WitType: variantType,
		Detail:  "value is not a case of the variant",
	}
}

// InvalidChar reports a rune that is not a Unicode scalar value.
func InvalidChar(phase Phase, path []string, r rune) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidChar,
		Path:   path,
		Detail: fmt.Sprintf("%U is not a unicode scalar value", r),
		Value:  r,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InterfaceNotFound reports an exported interface missing from an instance.
func InterfaceNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseLookup,
		Kind:   KindInterfaceNotFound,
		Value:  name,
		Detail: fmt.Sprintf("interface %q not exported", name),
	}
}

// FunctionNotFound reports an exported function missing from an interface.
// An empty iface means the instance root.
func FunctionNotFound(iface, name string) *Error {
	detail := fmt.Sprintf("function %q not exported", name)
	if iface != "" {
		detail = fmt.Sprintf("function %q not exported by %q", name, iface)
	}
	return &Error{
		Phase:  PhaseLookup,
		Kind:   KindFunctionNotFound,
		Value:  name,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, namespace, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Duplicate reports a second definition of the same name.
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already defined", what, name),
	}
}

// SignatureMismatch reports a function whose dynamic signature differs from
// the one a typed binding expects.
func SignatureMismatch(name, got, want string) *Error {
	return &Error{
		Phase:   PhaseLookup,
		Kind:    KindSignature,
		GoType:  got,
		WitType: want,
		Detail:  fmt.Sprintf("function %q", name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath prefixes the path of a structured error with segments, so a
// failure deep inside a nested value reports where it happened. Other
// errors are returned unchanged.
func WithPath(err error, segments ...string) error {
	e, ok := err.(*Error)
	if !ok || len(segments) == 0 {
		return err
	}
	cp := *e
	cp.Path = make([]string, 0, len(segments)+len(e.Path))
	cp.Path = append(cp.Path, segments...)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// CallFailed wraps an error returned while dispatching name.
func CallFailed(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("call %s", name),
		Cause:  cause,
	}
}
