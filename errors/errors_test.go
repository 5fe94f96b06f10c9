package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseEncode,
				Kind:    KindTypeMismatch,
				Path:    []string{"user", "address", "zip"},
				GoType:  "string",
				WitType: "u32",
				Detail:  "cannot convert",
			},
			contains: []string{"[encode]", "type_mismatch", "user.address.zip", "expected u32, got string", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindInvalidInput,
				Detail: "call math#divide",
				Cause:  errors.New("division by zero"),
			},
			contains: []string{"[call]", "invalid_input", "math#divide", "caused by", "division by zero"},
		},
		{
			name: "wit type only",
			err: &Error{
				Phase:   PhaseDecode,
				Kind:    KindInvalidEnum,
				WitType: "color",
			},
			contains: []string{"WIT type color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseLoad, KindInvalidInput, cause, "load WIT")

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := FieldMissing(PhaseDecode, []string{"point"}, "x")

	if !errors.Is(err, ErrFieldMissing) {
		t.Error("expected match against kind-only sentinel")
	}
	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindFieldMissing}) {
		t.Error("expected match with same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindFieldMissing}) {
		t.Error("unexpected match with different phase")
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Error("unexpected match with different kind")
	}
	if errors.Is(err, errors.New("field_missing")) {
		t.Error("unexpected match with plain error")
	}

	wrapped := CallFailed("math#divide", err)
	if !errors.Is(wrapped, ErrFieldMissing) {
		t.Error("expected match through cause chain")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseDecode, KindTypeMismatch).
		Path("shape", "circle").
		GoType("string").
		WitType("f64").
		Value(3).
		Detail("case %s", "circle").
		Cause(errors.New("inner")).
		Build()

	if err.Phase != PhaseDecode || err.Kind != KindTypeMismatch {
		t.Errorf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if strings.Join(err.Path, ".") != "shape.circle" {
		t.Errorf("path = %v", err.Path)
	}
	if err.GoType != "string" || err.WitType != "f64" {
		t.Errorf("types = %s/%s", err.GoType, err.WitType)
	}
	if err.Value != 3 {
		t.Errorf("value = %v", err.Value)
	}
	if err.Detail != "case circle" {
		t.Errorf("detail = %q", err.Detail)
	}
	if err.Cause == nil {
		t.Error("cause not set")
	}
}

func TestWithPath(t *testing.T) {
	inner := FieldMissing(PhaseDecode, []string{"id"}, "id")

	got := WithPath(inner, "items", "1")
	var e *Error
	if !errors.As(got, &e) {
		t.Fatalf("WithPath returned %T", got)
	}
	if p := strings.Join(e.Path, "."); p != "items.1.id" {
		t.Errorf("path = %s, want items.1.id", p)
	}
	if strings.Join(inner.Path, ".") != "id" {
		t.Error("WithPath modified the original error")
	}

	plain := errors.New("plain")
	if WithPath(plain, "x") != plain {
		t.Error("plain errors should pass through")
	}
	if WithPath(inner) != error(inner) {
		t.Error("empty segments should return the error unchanged")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
		want  string
	}{
		{"type mismatch", TypeMismatch(PhaseDecode, nil, "string", "s32"), PhaseDecode, KindTypeMismatch, "expected s32, got string"},
		{"payload missing", PayloadMissing(PhaseDecode, nil, "circle"), PhaseDecode, KindPayloadMissing, `"circle" requires a payload`},
		{"payload unexpected", PayloadUnexpected(PhaseEncode, nil, "none"), PhaseEncode, KindPayloadUnexpected, `"none" carries no payload`},
		{"discriminant", InvalidDiscriminant(PhaseDecode, nil, 7, 3), PhaseDecode, KindInvalidDiscriminant, "discriminant 7 out of range (3 cases)"},
		{"enum", InvalidEnum(PhaseEncode, nil, 9, "color"), PhaseEncode, KindInvalidEnum, "invalid enum value 9 for color"},
		{"variant", InvalidVariant(PhaseEncode, nil, "int", "shape"), PhaseEncode, KindInvalidVariant, "not a case"},
		{"char", InvalidChar(PhaseDecode, nil, 0xD800), PhaseDecode, KindInvalidChar, "U+D800"},
		{"bounds", OutOfBounds(PhaseValidate, nil, 70, 64), PhaseValidate, KindOutOfBounds, "index 70 out of bounds (length 64)"},
		{"not found", NotFound(PhaseLoad, "world", "cli"), PhaseLoad, KindNotFound, `world "cli" not found`},
		{"interface", InterfaceNotFound("ex:calc/math"), PhaseLookup, KindInterfaceNotFound, `"ex:calc/math" not exported`},
		{"function", FunctionNotFound("math", "divide"), PhaseLookup, KindFunctionNotFound, `"divide" not exported by "math"`},
		{"root function", FunctionNotFound("", "run"), PhaseLookup, KindFunctionNotFound, `function "run" not exported`},
		{"registration", Registration(PhaseLinking, "math", "divide", nil), PhaseLinking, KindRegistration, "register math#divide"},
		{"duplicate", Duplicate(PhaseGenerate, "type", "point"), PhaseGenerate, KindDuplicate, `type "point" already defined`},
		{"signature", SignatureMismatch("add", "func(s32)", "func(s32, s32)"), PhaseLookup, KindSignature, "expected func(s32, s32), got func(s32)"},
		{"unsupported", Unsupported(PhaseGenerate, "stream"), PhaseGenerate, KindUnsupported, "stream"},
		{"invalid input", InvalidInput(PhaseLinking, "empty name"), PhaseLinking, KindInvalidInput, "empty name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase = %s, want %s", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}
