// Package scope implements the lexical scope stack of spec §4.2: a
// stack of frames, each an ordered set of name-to-value bindings,
// searched innermost-first for reads and writes, with new declarations
// always landing in the innermost frame.
//
// Grounded on the teacher's internal/frame.Frame: parallel ordered-key
// storage with a lookup index and Bind/Get/Set/HasWord accessors,
// adapted from a single-frame word table into the stack spec §4.2
// requires.
package scope

import (
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// Frame is one lexical scope level: a function body, block, or loop
// iteration (spec §4.2).
type Frame struct {
	names  []string
	index  map[string]int
	values []value.Value
}

func newFrame() *Frame {
	return &Frame{index: make(map[string]int)}
}

func (f *Frame) get(name string) (value.Value, bool) {
	if i, ok := f.index[name]; ok {
		return f.values[i], true
	}
	return value.Value{}, false
}

func (f *Frame) declare(name string, v value.Value) {
	if i, ok := f.index[name]; ok {
		f.values[i] = v
		return
	}
	f.index[name] = len(f.names)
	f.names = append(f.names, name)
	f.values = append(f.values, v)
}

func (f *Frame) set(name string, v value.Value) bool {
	i, ok := f.index[name]
	if !ok {
		return false
	}
	f.values[i] = v
	return true
}

func (f *Frame) delete(name string) bool {
	i, ok := f.index[name]
	if !ok {
		return false
	}
	f.names = append(f.names[:i], f.names[i+1:]...)
	f.values = append(f.values[:i], f.values[i+1:]...)
	delete(f.index, name)
	for k, idx := range f.index {
		if idx > i {
			f.index[k] = idx - 1
		}
	}
	return true
}

// Bindings returns a flat copy of this frame's name-to-value map, used
// by the call mechanism to build a function's captured closure (spec
// §4.6, §9 — post-hoc copy rather than a live chain).
func (f *Frame) Bindings() map[string]value.Value {
	m := make(map[string]value.Value, len(f.names))
	for i, n := range f.names {
		m[n] = f.values[i]
	}
	return m
}

// Stack is the scope stack spec §4.2 describes: Push on entering a
// block/function/loop-iteration, Pop on leaving it, with Declare,
// Fetch, Assign, and Erase operating innermost-first.
type Stack struct {
	frames []*Frame
}

// NewStack returns a stack with a single top-level frame already
// pushed, for toplevel declarations and script execution.
func NewStack() *Stack {
	return &Stack{frames: []*Frame{newFrame()}}
}

// Push seeds a new innermost frame, optionally pre-populated (function
// calls pre-populate with closure bindings and declare parameters
// afterwards; blocks push empty).
func (s *Stack) Push(seed map[string]value.Value) {
	f := newFrame()
	for k, v := range seed {
		f.declare(k, v)
	}
	s.frames = append(s.frames, f)
}

// Pop discards the innermost frame.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth reports how many frames are on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// Declare binds name in the innermost frame (spec §4.2 "let").
// Redeclaring a name already bound in the same frame overwrites it.
func (s *Stack) Declare(name string, v value.Value) {
	s.frames[len(s.frames)-1].declare(name, v)
}

// Fetch searches frames innermost-first and returns the bound value.
func (s *Stack) Fetch(name string) (value.Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].get(name); ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// Assign walks frames innermost-first and writes to the first frame
// that already declares name (spec §4.2 "assign"). It does not create
// a new binding; the caller must raise a reference error when it
// returns false.
func (s *Stack) Assign(name string, v value.Value) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].set(name, v) {
			return true
		}
	}
	return false
}

// Erase removes the innermost binding for name (spec §4.2 "delete").
// Returns false if name is not bound in any frame.
func (s *Stack) Erase(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].delete(name) {
			return true
		}
	}
	return false
}

// InnermostBindings returns the current innermost frame's bindings,
// used to build a function literal's closure at the moment it is
// evaluated (spec §4.6).
func (s *Stack) InnermostBindings() map[string]value.Value {
	return s.frames[len(s.frames)-1].Bindings()
}

// ErrUndeclaredDelete is the reference error raised when deleting a
// name no frame declares.
func ErrUndeclaredDelete(callSite, name string) *verror.Error {
	return verror.NewReference(callSite, verror.IDUndeclaredDelete, [3]string{name, "", ""})
}

// ErrUndefinedVariable is the reference error raised when reading or
// assigning a name no frame declares.
func ErrUndefinedVariable(callSite, name string) *verror.Error {
	return verror.NewReference(callSite, verror.IDUndefinedVariable, [3]string{name, "", ""})
}
