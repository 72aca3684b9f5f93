package value

import (
	"strings"

	"github.com/chazu/tilde/parser"
)

// Variable is a named slot holding exactly one current value. A variable
// created by a declaration also carries the declared type, and every
// later assignment is converted to it.
type Variable struct {
	name  string
	value Value
	spec  *parser.TypeSpec
}

// NewVariable returns a variable bound to v.
func NewVariable(name string, v Value) *Variable {
	if v == nil {
		v = Null
	}
	return &Variable{name: name, value: v}
}

// NewDeclaredVariable returns a variable of the given declared type,
// holding Null or, for dimensioned types, an empty vector.
func NewDeclaredVariable(name string, spec *parser.TypeSpec) *Variable {
	var v Value = Null
	if spec != nil && spec.Dims > 0 {
		v = NewVector()
	}
	return &Variable{name: name, value: v, spec: spec}
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Value returns the bound value.
func (v *Variable) Value() Value { return v.value }

// Spec returns the declared type, or nil.
func (v *Variable) Spec() *parser.TypeSpec { return v.spec }

// Set binds x, converting it to the declared type when there is one.
func (v *Variable) Set(x Value) error {
	if x == nil {
		x = Null
	}
	if v.spec != nil {
		conv, err := Convert(x, v.spec)
		if err != nil {
			return TypeMismatchf("cannot assign %s to variable %s of type %s", typeOf(x), v.name, v.spec)
		}
		x = conv
	}
	v.value = x
	return nil
}

func typeOf(x Value) string {
	if r, err := Resolve(x); err == nil {
		return r.Type()
	}
	return x.Type()
}

// ---------------------------------------------------------------------------
// Type checks and conversion
// ---------------------------------------------------------------------------

var parents = map[string]string{
	TypeNatural: TypeInteger,
	TypeInteger: TypeReal,
}

// IsA reports whether values of type t can be used where want is required.
func IsA(t, want string) bool {
	if want == "" || want == TypeObject || t == want {
		return true
	}
	tb, tdims := splitDims(t)
	wb, wdims := splitDims(want)
	if tdims != wdims {
		return false
	}
	if wb == TypeObject {
		return true
	}
	for p := tb; p != ""; p = parents[p] {
		if p == wb {
			return true
		}
	}
	return false
}

func splitDims(t string) (string, int) {
	dims := 0
	for strings.HasSuffix(t, "[]") {
		t = strings.TrimSuffix(t, "[]")
		dims++
	}
	return t, dims
}

// Convert returns x as a value of the declared type spec. Null is accepted
// by every type. Numbers widen along Natural, Integer, Real; narrowing is
// allowed when the number is integral and, for Natural, non-negative.
// Model nodes whose payload already conforms are kept as they are.
func Convert(x Value, spec *parser.TypeSpec) (Value, error) {
	if spec == nil || spec.Name == "" {
		return x, nil
	}
	if spec.Ref {
		if _, ok := x.(*Reference); ok {
			return x, nil
		}
	}
	r, err := Resolve(x)
	if err != nil {
		return nil, err
	}
	if IsNull(r) {
		return x, nil
	}

	if spec.Dims > 0 {
		c, ok := r.(Container)
		if !ok {
			return nil, TypeMismatchf("%s is not a container", r.Type())
		}
		elem := &parser.TypeSpec{Name: spec.Name, Dims: spec.Dims - 1}
		out := make([]Value, 0, c.Len())
		for _, e := range c.Elements() {
			ce, err := Convert(e, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, ce)
		}
		return NewVector(out...), nil
	}

	if _, isVec := r.(Container); isVec && spec.Name != TypeObject {
		return nil, TypeMismatchf("cannot convert %s to %s", r.Type(), spec.Name)
	}
	if IsA(r.Type(), spec.Name) && !needsWidening(r, spec.Name) {
		return x, nil
	}
	return convertScalar(r, spec.Name)
}

func needsWidening(r Value, want string) bool {
	return IsNumeric(r) && r.Type() != want && (want == TypeInteger || want == TypeReal)
}

func convertScalar(r Value, want string) (Value, error) {
	switch want {
	case TypeReal:
		if f, ok := ToFloat(r); ok {
			return Real(f), nil
		}
	case TypeInteger:
		if n, ok := ToInt(r); ok {
			return Integer(n), nil
		}
	case TypeNatural:
		if n, ok := ToInt(r); ok && n >= 0 {
			return Natural(n), nil
		}
	case TypeBool:
		if b, ok := r.(Bool); ok {
			return b, nil
		}
	case TypeString:
		if s, ok := r.(String); ok {
			return s, nil
		}
	}
	return nil, TypeMismatchf("cannot convert %s to %s", r.Type(), want)
}
