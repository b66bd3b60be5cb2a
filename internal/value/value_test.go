package value

import "testing"

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", Undef, false},
		{"null", Nul, false},
		{"true", True, true},
		{"false", False, false},
		{"zero", Num(0), false},
		{"nonzero", Num(1), true},
		{"nan", Num(nan()), false},
		{"empty string", Str(""), false},
		{"nonempty string", Str("x"), true},
		{"empty array truthy", Arr(nil), true},
		{"empty object truthy", Obj(NewObject()), true},
	}
	for _, c := range cases {
		if got := IsTruthy(c.v); got != c.want {
			t.Errorf("IsTruthy(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Undef, "undefined"},
		{Nul, "null"},
		{True, "boolean"},
		{Num(1), "number"},
		{Str("x"), "string"},
		{Arr(nil), "array"},
		{Obj(NewObject()), "object"},
		{Fn(&FunctionHandle{}), "function"},
		{HostFn("f", func([]Value) (Value, error) { return Undef, nil }), "function"},
	}
	for _, c := range cases {
		if got := TypeOf(c.v); got != c.want {
			t.Errorf("TypeOf(%v) = %q, want %q", c.v.Kind, got, c.want)
		}
	}
}

func TestEqualCrossKindAlwaysFalse(t *testing.T) {
	if Equal(Num(0), Str("0")) {
		t.Error("Equal(0, \"0\") should be false: no cross-type coercion")
	}
	if Equal(Nul, Undef) {
		t.Error("Equal(null, undefined) should be false: distinct kinds")
	}
}

func TestEqualNumbersAndStringsByValue(t *testing.T) {
	if !Equal(Num(1.5), Num(1.5)) {
		t.Error("equal numbers should compare equal")
	}
	if !Equal(Str("abc"), Str("abc")) {
		t.Error("equal strings should compare equal")
	}
	n := Num(nan())
	if Equal(n, n) {
		t.Error("NaN should never equal itself")
	}
}

func TestEqualAggregatesByReference(t *testing.T) {
	a1 := Arr([]Value{Num(1)})
	a2 := Arr([]Value{Num(1)})
	if Equal(a1, a2) {
		t.Error("structurally-identical arrays with distinct handles should not be equal")
	}
	if !Equal(a1, a1) {
		t.Error("an array should equal itself by reference")
	}
}

func TestObjectHandlePreservesInsertionOrderAcrossOverwrite(t *testing.T) {
	o := NewObject()
	o.Set("a", Num(1))
	o.Set("b", Num(2))
	o.Set("a", Num(99))
	want := []string{"a", "b"}
	got := o.Keys()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	v, ok := o.Get("a")
	if !ok || v.Num != 99 {
		t.Fatalf("Get(a) = (%v, %v), want (99, true)", v, ok)
	}
}

func TestObjectHandleDeleteKeepsIndexDense(t *testing.T) {
	o := NewObject()
	o.Set("a", Num(1))
	o.Set("b", Num(2))
	o.Set("c", Num(3))
	o.Delete("b")
	want := []string{"a", "c"}
	got := o.Keys()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Keys() after delete = %v, want %v", got, want)
	}
	if v, ok := o.Get("c"); !ok || v.Num != 3 {
		t.Fatalf("Get(c) after delete = (%v, %v), want (3, true)", v, ok)
	}
}

func TestInspectRendersNestedStringsQuoted(t *testing.T) {
	arr := Arr([]Value{Str("hi"), Num(1)})
	got := Inspect(arr)
	want := `["hi",1]`
	if got != want {
		t.Fatalf("Inspect(array) = %q, want %q", got, want)
	}
	if Inspect(Str("hi")) != "hi" {
		t.Fatalf("Inspect(string) should not quote at top level")
	}
}

func TestHostFnIsCallable(t *testing.T) {
	fn := HostFn("noop", func(args []Value) (Value, error) { return Nul, nil })
	if !IsCallable(fn) {
		t.Fatal("a HostFn value should be callable")
	}
	if fn.Fn.Native == nil {
		t.Fatal("HostFn should populate FunctionHandle.Native")
	}
}
