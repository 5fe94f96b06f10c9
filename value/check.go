package value

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/witgen/errors"
)

// Check validates v against t recursively: kinds, arities, field names,
// discriminant ranges, flag bits and char validity. Errors carry the path
// to the offending element.
func Check(t Type, v Value) error {
	return check(t, v, nil)
}

func mismatch(path []string, v Value, t Type) error {
	return errors.TypeMismatch(errors.PhaseValidate, clonePath(path), v.Type().String(), t.String())
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	return append([]string(nil), path...)
}

func check(t Type, v Value, path []string) error {
	if !t.Valid() {
		return errors.InvalidInput(errors.PhaseValidate, "no type to check against")
	}
	if v.kind != t.Kind() {
		return mismatch(path, v, t)
	}

	switch t.Kind() {
	case KindChar:
		r := rune(uint32(v.num))
		if !utf8.ValidRune(r) {
			return errors.InvalidChar(errors.PhaseValidate, clonePath(path), r)
		}
	case KindList:
		for i, e := range v.elems {
			if err := check(t.Elem(), e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case KindOption:
		if v.set {
			if v.payload == nil {
				return errors.PayloadMissing(errors.PhaseValidate, clonePath(path), "some")
			}
			return check(t.Elem(), *v.payload, append(path, "some"))
		}
	case KindResult:
		arm, name := t.OK(), "ok"
		if v.set {
			arm, name = t.Err(), "err"
		}
		return checkPayload(arm, v.payload, name, path)
	case KindTuple:
		types := t.Types()
		if len(types) != len(v.elems) {
			return mismatch(path, v, t)
		}
		for i, e := range v.elems {
			if err := check(types[i], e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case KindRecord:
		fields := t.Fields()
		vf := v.typ.Fields()
		for i, f := range fields {
			if i >= len(vf) || i >= len(v.elems) || vf[i].Name != f.Name {
				return errors.FieldMissing(errors.PhaseValidate, clonePath(path), f.Name)
			}
			if err := check(f.Type, v.elems[i], append(path, f.Name)); err != nil {
				return err
			}
		}
		if len(v.elems) != len(fields) {
			return mismatch(path, v, t)
		}
	case KindVariant:
		cases := t.Cases()
		disc := uint32(v.num)
		if int(disc) >= len(cases) {
			return errors.InvalidDiscriminant(errors.PhaseValidate, clonePath(path), disc, len(cases))
		}
		c := cases[disc]
		return checkPayload(c.Payload, v.payload, c.Name, path)
	case KindEnum:
		disc := uint32(v.num)
		if int(disc) >= len(t.Names()) {
			return errors.InvalidDiscriminant(errors.PhaseValidate, clonePath(path), disc, len(t.Names()))
		}
	case KindFlags:
		n := len(t.Names())
		if n < MaxFlags && v.num>>uint(n) != 0 {
			return errors.New(errors.PhaseValidate, errors.KindOutOfBounds).
				Path(clonePath(path)...).
				Value(v.num).
				Detail("flag bits %#x exceed %d flags", v.num, n).
				Build()
		}
	case KindOwn, KindBorrow:
		if v.typ.Resource() != t.Resource() {
			return mismatch(path, v, t)
		}
	}
	return nil
}

func checkPayload(want Type, payload *Value, name string, path []string) error {
	switch {
	case want.Valid() && payload == nil:
		return errors.PayloadMissing(errors.PhaseValidate, clonePath(path), name)
	case !want.Valid() && payload != nil:
		return errors.PayloadUnexpected(errors.PhaseValidate, clonePath(path), name)
	case payload == nil:
		return nil
	}
	return check(want, *payload, append(path, name))
}
