// Package builtin registers the host callables spec §6 names as the
// minimal standard library: print, len, str, num. Each satisfies the
// host function contract of spec §6 (positional argument access, a
// single result) via value.HostFunc.
//
// Grounded on the teacher's evaluator output plumbing (an injected
// io.Writer via SetOutputWriter in internal/repl) rather than a
// fixed os.Stdout, so callers can redirect output in tests and in the
// embedding host.
package builtin

import (
	"fmt"
	"io"
	"math"

	"github.com/vlang-run/vlang/internal/scope"
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// Register declares print/len/str/num in the given scope frame (the
// toplevel frame of a freshly created interpreter).
func Register(s *scope.Stack, out io.Writer) {
	s.Declare("print", value.HostFn("print", printFn(out)))
	s.Declare("len", value.HostFn("len", lenFn))
	s.Declare("str", value.HostFn("str", strFn))
	s.Declare("num", value.HostFn("num", numFn))
}

func printFn(out io.Writer) value.HostFunc {
	return func(args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for idx, a := range args {
			parts[idx] = value.Inspect(a)
		}
		for idx, p := range parts {
			if idx > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, p)
		}
		fmt.Fprintln(out)
		return value.Nul, nil
	}
}

func lenFn(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undef, argCountErr("len", 1, len(args))
	}
	switch args[0].Kind {
	case value.String:
		return value.Num(float64(len(value.AsString(args[0])))), nil
	case value.Array:
		return value.Num(float64(len(args[0].Arr.Elems))), nil
	case value.Object:
		return value.Num(float64(args[0].Obj.Len())), nil
	default:
		return value.Undef, verror.NewType("len", verror.IDTypeMismatch, [3]string{"len", value.TypeOf(args[0]), ""})
	}
}

func strFn(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undef, argCountErr("str", 1, len(args))
	}
	return value.Str(value.Inspect(args[0])), nil
}

func numFn(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undef, argCountErr("num", 1, len(args))
	}
	switch args[0].Kind {
	case value.Number:
		return args[0], nil
	case value.String:
		var f float64
		if _, err := fmt.Sscanf(value.AsString(args[0]), "%g", &f); err != nil {
			return value.Num(math.NaN()), nil
		}
		return value.Num(f), nil
	case value.Boolean:
		if value.AsBool(args[0]) {
			return value.Num(1), nil
		}
		return value.Num(0), nil
	default:
		return value.Undef, verror.NewType("num", verror.IDTypeMismatch, [3]string{"num", value.TypeOf(args[0]), ""})
	}
}

func argCountErr(name string, want, got int) error {
	return verror.NewStructural(name, verror.IDArgCount, [3]string{name, fmt.Sprintf("%d", want), fmt.Sprintf("%d", got)})
}
