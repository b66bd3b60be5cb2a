package value

import (
	"fmt"
	"math"
	"strconv"
)

// IsTruthy implements the language's truthiness rule (spec §4.4):
// null and undefined are falsy; booleans use their own value; numbers
// are falsy only at exactly zero or NaN; strings are falsy only when
// empty; arrays and objects are always truthy regardless of length.
func IsTruthy(v Value) bool {
	switch v.Kind {
	case Undefined, Null:
		return false
	case Boolean:
		return bool(v.Bool)
	case Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case String:
		return v.Str.Data != ""
	case Array, Object, Function, HostFunction:
		return true
	default:
		return false
	}
}

// TypeOf returns the typeof name spec §8 defines for each kind.
func TypeOf(v Value) string {
	switch v.Kind {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Function, HostFunction:
		return "function"
	default:
		return "undefined"
	}
}

// AsNumber extracts the float payload; callers must first confirm Kind
// == Number via a type check at the call site (spec errors on
// mismatch, this package never silently coerces).
func AsNumber(v Value) float64 { return v.Num }

func AsString(v Value) string {
	if v.Str == nil {
		return ""
	}
	return v.Str.Data
}

func AsBool(v Value) bool { return bool(v.Bool) }

func AsArray(v Value) *ArrayHandle { return v.Arr }

func AsObject(v Value) *ObjectHandle { return v.Obj }

func AsFunction(v Value) *FunctionHandle { return v.Fn }

func IsCallable(v Value) bool { return v.Kind == Function || v.Kind == HostFunction }

// Equal implements the language's equality rule (spec §4.4 point 3):
// values of different kinds are never equal (no cross-type coercion);
// numbers compare by value (NaN != NaN, per IEEE 754); strings and
// booleans compare by value; arrays and objects compare by reference
// identity, not structurally; functions compare by reference.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Undefined, Null:
		return true
	case Boolean:
		return a.Bool == b.Bool
	case Number:
		return a.Num == b.Num
	case String:
		return a.Str.Data == b.Str.Data
	case Array:
		return a.Arr == b.Arr
	case Object:
		return a.Obj == b.Obj
	case Function, HostFunction:
		return a.Fn == b.Fn
	default:
		return false
	}
}

// Inspect renders a value for host-side printing (print/str builtins,
// spec §6), not for script-level serialization.
func Inspect(v Value) string {
	switch v.Kind {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(v.Num)
	case String:
		return v.Str.Data
	case Array:
		s := "["
		for i, e := range v.Arr.Elems {
			if i > 0 {
				s += ","
			}
			s += inspectNested(e)
		}
		return s + "]"
	case Object:
		s := "{"
		for i, k := range v.Obj.keys {
			if i > 0 {
				s += ", "
			}
			fv, _ := v.Obj.Get(k)
			s += fmt.Sprintf("%s: %s", k, inspectNested(fv))
		}
		return s + "}"
	case Function, HostFunction:
		name := v.Fn.Name
		if name == "" {
			name = "anonymous"
		}
		return "[function " + name + "]"
	default:
		return "?"
	}
}

func inspectNested(v Value) string {
	if v.Kind == String {
		return strconv.Quote(v.Str.Data)
	}
	return Inspect(v)
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
