package eval

import (
	"github.com/vlang-run/vlang/internal/value"
	"github.com/vlang-run/vlang/internal/verror"
)

// AccessorKind discriminates the L-value variants of spec §4.3, §9.
type AccessorKind int

const (
	ByValue AccessorKind = iota
	ByIdentifier
	ByArrayIndex
	ByObjectKey
	ByOptionalKey
)

// Accessor is the L-value descriptor spec §4.3 describes: produced by
// a primary expression followed by any chain of postfix steps, each
// of which reifies the current accessor via Get and reshapes it into
// the next variant.
type Accessor struct {
	Kind AccessorKind

	Value value.Value // ByValue payload

	Name string // ByIdentifier / ByObjectKey / ByOptionalKey field or variable name

	Holder     value.Value // array or object the member belongs to
	Index      int         // ByArrayIndex
	HolderNull bool        // ByOptionalKey: true when the chain's holder was null/undefined
}

func accValue(v value.Value) Accessor { return Accessor{Kind: ByValue, Value: v} }

// Get reifies the accessor to a value (spec §4.3).
func (a Accessor) Get(i *Interp, callSite string) (value.Value, *verror.Error) {
	switch a.Kind {
	case ByValue:
		return a.Value, nil
	case ByIdentifier:
		v, ok := i.Scope.Fetch(a.Name)
		if !ok {
			return value.Undef, i.errAt(callSite, verror.IDUndefinedVariable, [3]string{a.Name, "", ""})
		}
		return v, nil
	case ByArrayIndex:
		arr := a.Holder.Arr
		if a.Index < 0 || a.Index >= len(arr.Elems) {
			return value.Nul, nil
		}
		return arr.Elems[a.Index], nil
	case ByObjectKey:
		v, ok := a.Holder.Obj.Get(a.Name)
		if !ok {
			return value.Nul, nil
		}
		return v, nil
	case ByOptionalKey:
		if a.HolderNull {
			return value.Nul, nil
		}
		v, ok := a.Holder.Obj.Get(a.Name)
		if !ok {
			return value.Nul, nil
		}
		return v, nil
	default:
		return value.Undef, nil
	}
}

// Put writes through the accessor (spec §4.3: "put on by-value
// fails"; optional-key put on a null holder also fails).
func (a Accessor) Put(i *Interp, v value.Value, callSite string) *verror.Error {
	switch a.Kind {
	case ByValue:
		return i.errAt(callSite, verror.IDNotAssignable, [3]string{"", "", ""})
	case ByIdentifier:
		if !i.Scope.Assign(a.Name, v) {
			return i.errAt(callSite, verror.IDUndefinedVariable, [3]string{a.Name, "", ""})
		}
		return nil
	case ByArrayIndex:
		arr := a.Holder.Arr
		if a.Index < 0 {
			return i.errAt(callSite, verror.IDBadIndex, [3]string{"negative", "", ""})
		}
		for len(arr.Elems) <= a.Index {
			arr.Elems = append(arr.Elems, value.Nul)
		}
		arr.Elems[a.Index] = v
		return nil
	case ByObjectKey:
		a.Holder.Obj.Set(a.Name, v)
		return nil
	case ByOptionalKey:
		if a.HolderNull {
			return i.errAt(callSite, verror.IDMemberOfNonObject, [3]string{a.Name, "null", ""})
		}
		a.Holder.Obj.Set(a.Name, v)
		return nil
	default:
		return i.errAt(callSite, verror.IDNotAssignable, [3]string{"", "", ""})
	}
}
