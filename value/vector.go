package value

import "strings"

// Vector is an ordered, growable container. Elements may be any value,
// including model nodes.
type Vector struct {
	elems []Value
}

// NewVector returns a vector holding elems.
func NewVector(elems ...Value) *Vector {
	return &Vector{elems: append([]Value(nil), elems...)}
}

// Type returns the element type followed by [].
func (v *Vector) Type() string {
	return ElementType(v.elems) + "[]"
}

// ElementType returns the common type name of vs: their shared type, the
// widest numeric type when they are all numbers, or Object.
func ElementType(vs []Value) string {
	if len(vs) == 0 {
		return TypeObject
	}
	plain := make([]Value, len(vs))
	for i, e := range vs {
		r, err := Resolve(e)
		if err != nil {
			return TypeObject
		}
		plain[i] = r
	}
	if w := Widest(plain...); w != "" {
		return w
	}
	t := plain[0].Type()
	for _, e := range plain[1:] {
		if e.Type() != t {
			return TypeObject
		}
	}
	return t
}

func (v *Vector) String() string {
	if len(v.elems) == 0 {
		return "[ ]"
	}
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		if r, err := Resolve(e); err == nil {
			e = r
		}
		parts[i] = e.String()
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

// Len returns the number of elements.
func (v *Vector) Len() int { return len(v.elems) }

// Element returns the i-th element (1-based).
func (v *Vector) Element(i int) (Value, error) {
	if i < 1 || i > len(v.elems) {
		return nil, IndexOutOfRangef("index %d, length %d", i, len(v.elems))
	}
	return v.elems[i-1], nil
}

// Elements returns a copy of the element slice.
func (v *Vector) Elements() []Value {
	return append([]Value(nil), v.elems...)
}

// SetElement stores x at position i (1-based), growing the vector with
// Null as needed.
func (v *Vector) SetElement(i int, x Value) error {
	if i < 1 {
		return IndexOutOfRangef("index %d", i)
	}
	for len(v.elems) < i {
		v.elems = append(v.elems, Null)
	}
	v.elems[i-1] = x
	return nil
}

// Append adds elements at the end.
func (v *Vector) Append(xs ...Value) {
	v.elems = append(v.elems, xs...)
}

// Copy returns a copy of v. Nested mutable elements are copied too; model
// nodes are shared.
func (v *Vector) Copy() Value {
	out := make([]Value, len(v.elems))
	for i, e := range v.elems {
		if c, ok := e.(Copier); ok {
			e = c.Copy()
		}
		out[i] = e
	}
	return &Vector{elems: out}
}

// ToBool converts a single-element vector through its element.
func (v *Vector) ToBool() (bool, error) {
	if len(v.elems) != 1 {
		return false, TypeMismatchf("cannot convert vector of length %d to Bool", len(v.elems))
	}
	return ToBool(v.elems[0])
}

// Method implements MethodHolder.
func (v *Vector) Method(name string) (Value, bool) {
	switch name {
	case "size":
		return &Builtin{
			Name: "size",
			Fn: func([]Value) (Value, error) {
				return Natural(len(v.elems)), nil
			},
		}, true
	case "append":
		return &Builtin{
			Name:   "append",
			Params: []Param{{Name: "x", Ellipsis: true}},
			Fn: func(args []Value) (Value, error) {
				if extra, ok := args[0].(*Vector); ok {
					v.Append(extra.elems...)
				}
				return v, nil
			},
		}, true
	}
	return nil, false
}
