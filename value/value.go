// Package value defines the runtime objects of the tilde interpreter and the
// capability interfaces the evaluator checks for at its boundaries.
package value

// Value is any first-class runtime object a Variable can hold.
type Value interface {
	// Type returns the language-level type name, e.g. "Real" or "Natural[]".
	Type() string
	String() string
}

// Named values carry a display name used in diagnostics.
type Named interface {
	Name() string
	SetName(name string)
}

// Node is a value whose payload is computed or held by a model object:
// deterministic nodes, stochastic nodes and references. Operators always
// work on the current payload.
type Node interface {
	Value
	Current() (Value, error)
}

// Settable nodes accept a new payload.
type Settable interface {
	SetCurrent(v Value) error
}

// BoolConverter values can be used as conditions.
type BoolConverter interface {
	ToBool() (bool, error)
}

// Container values are ordered sequences that can be indexed and iterated.
// Indices are 1-based.
type Container interface {
	Value
	Len() int
	Element(i int) (Value, error)
	Elements() []Value
}

// Distribution manufactures new random-variable values.
type Distribution interface {
	Value
	NewRandomVariable() (Value, error)
}

// MemberHolder values own named member variables. The set of members is
// fixed by the holder; assignment never adds one.
type MemberHolder interface {
	Member(name string) (*Variable, error)
}

// MethodHolder values expose callable members (obj.f(args)).
type MethodHolder interface {
	Method(name string) (Value, bool)
}

// Copier values are mutable and must be copied when bound by value.
type Copier interface {
	Copy() Value
}

// maxResolveDepth bounds chains of nodes whose payload is another node.
const maxResolveDepth = 64

// Resolve returns the plain payload of v, following nodes.
func Resolve(v Value) (Value, error) {
	for i := 0; i < maxResolveDepth; i++ {
		n, ok := v.(Node)
		if !ok {
			if v == nil {
				return Null, nil
			}
			return v, nil
		}
		cur, err := n.Current()
		if err != nil {
			return nil, err
		}
		v = cur
	}
	return nil, TypeMismatchf("value chain too deep")
}

// Snapshot resolves v and copies it when it is mutable, giving a value that
// no later mutation of v can affect.
func Snapshot(v Value) (Value, error) {
	r, err := Resolve(v)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(Copier); ok {
		return c.Copy(), nil
	}
	return r, nil
}

// ToBool converts v to a Go bool through its BoolConverter capability.
func ToBool(v Value) (bool, error) {
	r, err := Resolve(v)
	if err != nil {
		return false, err
	}
	bc, ok := r.(BoolConverter)
	if !ok {
		return false, TypeMismatchf("cannot convert %s to Bool", r.Type())
	}
	return bc.ToBool()
}

// SetName sets the display name of v when it supports one.
func SetName(v Value, name string) {
	if n, ok := v.(Named); ok {
		n.SetName(name)
	}
}
