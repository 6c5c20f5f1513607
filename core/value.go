package core

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindNumber
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the tagged variant a field or property holds at runtime.
// Formulas only ever consume numbers; booleans coerce to 1/0 at the
// arithmetic boundary and strings never cross it.
type Value struct {
	Kind Kind
	Num  float64
	Bool bool
	Str  string
}

func NumberValue(v float64) Value { return Value{Kind: KindNumber, Num: v} }
func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func StringValue(v string) Value  { return Value{Kind: KindString, Str: v} }
func NilValue() Value             { return Value{Kind: KindNil} }

func (v Value) IsNil() bool { return v.Kind == KindNil }

// AsNumber returns the numeric view of the value. Booleans coerce to 1/0.
// Strings and nil are not numeric and return an error rather than a silent 0.
func (v Value) AsNumber() (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindString:
		return 0, fmt.Errorf("cannot use string value %q as a number", v.Str)
	default:
		return 0, fmt.Errorf("cannot use nil value as a number")
	}
}

// AsString returns the string view. Only string values have one.
func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("cannot use %s value as a string", v.Kind)
	}
	return v.Str, nil
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	default:
		return "<nil>"
	}
}

// Equal compares two values. Kinds must match; there is no cross-kind
// coercion here (the evaluator coerces before comparing).
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindString:
		return v.Str == other.Str
	default:
		return true
	}
}
