package scope

import (
	"testing"

	"github.com/vlang-run/vlang/internal/value"
)

func TestDeclareAndFetch(t *testing.T) {
	s := NewStack()
	s.Declare("x", value.Num(1))
	v, ok := s.Fetch("x")
	if !ok || v.Num != 1 {
		t.Fatalf("Fetch(x) = (%v, %v), want (1, true)", v, ok)
	}
	if _, ok := s.Fetch("y"); ok {
		t.Fatal("Fetch(y) should fail: never declared")
	}
}

func TestPushShadowsOuterBinding(t *testing.T) {
	s := NewStack()
	s.Declare("x", value.Num(1))
	s.Push(nil)
	s.Declare("x", value.Num(2))

	v, _ := s.Fetch("x")
	if v.Num != 2 {
		t.Fatalf("inner frame should shadow: Fetch(x) = %v, want 2", v.Num)
	}
	s.Pop()
	v, _ = s.Fetch("x")
	if v.Num != 1 {
		t.Fatalf("after Pop, outer binding should be visible again: Fetch(x) = %v, want 1", v.Num)
	}
}

func TestAssignWritesNearestDeclaringFrame(t *testing.T) {
	s := NewStack()
	s.Declare("x", value.Num(1))
	s.Push(nil)
	if !s.Assign("x", value.Num(5)) {
		t.Fatal("Assign(x) should find the outer declaration")
	}
	s.Pop()
	v, _ := s.Fetch("x")
	if v.Num != 5 {
		t.Fatalf("Assign should have mutated the outer frame: got %v, want 5", v.Num)
	}
}

func TestAssignUndeclaredFails(t *testing.T) {
	s := NewStack()
	if s.Assign("nope", value.Num(1)) {
		t.Fatal("Assign to an undeclared name should report false")
	}
}

func TestEraseRemovesInnermostBinding(t *testing.T) {
	s := NewStack()
	s.Declare("x", value.Num(1))
	if !s.Erase("x") {
		t.Fatal("Erase(x) should succeed")
	}
	if _, ok := s.Fetch("x"); ok {
		t.Fatal("x should be gone after Erase")
	}
	if s.Erase("x") {
		t.Fatal("Erase(x) twice should report false the second time")
	}
}

func TestPushSeedsClosureBindings(t *testing.T) {
	s := NewStack()
	seed := map[string]value.Value{"captured": value.Str("hi")}
	s.Push(seed)
	v, ok := s.Fetch("captured")
	if !ok || value.AsString(v) != "hi" {
		t.Fatalf("Fetch(captured) = (%v, %v), want (hi, true)", v, ok)
	}
}

func TestInnermostBindingsReflectsCurrentFrameOnly(t *testing.T) {
	s := NewStack()
	s.Declare("outer", value.Num(1))
	s.Push(nil)
	s.Declare("inner", value.Num(2))

	bindings := s.InnermostBindings()
	if _, ok := bindings["outer"]; ok {
		t.Fatal("InnermostBindings should not include outer-frame names")
	}
	if v, ok := bindings["inner"]; !ok || v.Num != 2 {
		t.Fatalf("InnermostBindings[inner] = (%v, %v), want (2, true)", v, ok)
	}
}

func TestDepthTracksPushPop(t *testing.T) {
	s := NewStack()
	if s.Depth() != 1 {
		t.Fatalf("fresh stack depth = %d, want 1", s.Depth())
	}
	s.Push(nil)
	s.Push(nil)
	if s.Depth() != 3 {
		t.Fatalf("depth after two pushes = %d, want 3", s.Depth())
	}
	s.Pop()
	if s.Depth() != 2 {
		t.Fatalf("depth after one pop = %d, want 2", s.Depth())
	}
}
