package value

import (
	"errors"
	"math"
	"testing"
)

// fixed is a node whose payload is another value.
type fixed struct{ v Value }

func (f *fixed) Type() string            { return "Fixed" }
func (f *fixed) String() string          { return "fixed" }
func (f *fixed) Current() (Value, error) { return f.v, nil }

func TestResolve(t *testing.T) {
	v, err := Resolve(&fixed{v: &fixed{v: Natural(4)}})
	if err != nil {
		t.Fatal(err)
	}
	if v != Natural(4) {
		t.Errorf("Resolve = %v, want 4", v)
	}

	if v, _ := Resolve(nil); !IsNull(v) {
		t.Errorf("Resolve(nil) = %v, want NULL", v)
	}

	loop := &fixed{}
	loop.v = loop
	if _, err := Resolve(loop); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Resolve(cycle) error = %v, want type mismatch", err)
	}
}

func TestSnapshot(t *testing.T) {
	vec := NewVector(Natural(1), NewVector(Natural(2)))
	snap, err := Snapshot(&fixed{v: vec})
	if err != nil {
		t.Fatal(err)
	}

	vec.SetElement(1, Natural(9))
	inner, _ := vec.Element(2)
	inner.(*Vector).SetElement(1, Natural(8))

	if got := snap.String(); got != "[ 1, [ 2 ] ]" {
		t.Errorf("snapshot = %s, want [ 1, [ 2 ] ]", got)
	}
	if got := vec.String(); got != "[ 9, [ 8 ] ]" {
		t.Errorf("original = %s, want [ 9, [ 8 ] ]", got)
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Bool(true), true},
		{Bool(false), false},
		{Natural(0), false},
		{Integer(-3), true},
		{Real(0.5), true},
		{NewVector(Bool(true)), true},
		{&fixed{v: Natural(1)}, true},
	}
	for _, tc := range tests {
		got, err := ToBool(tc.v)
		if err != nil {
			t.Errorf("ToBool(%v): %v", tc.v, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ToBool(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}

	for _, v := range []Value{String("yes"), Null, NewVector(Natural(1), Natural(2))} {
		if _, err := ToBool(v); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("ToBool(%v) error = %v, want type mismatch", v, err)
		}
	}
}

func TestRealString(t *testing.T) {
	tests := []struct {
		r    Real
		want string
	}{
		{3, "3"},
		{2.5, "2.5"},
		{Real(math.Inf(1)), "Inf"},
		{Real(math.Inf(-1)), "-Inf"},
		{Real(math.NaN()), "NaN"},
	}
	for _, tc := range tests {
		if got := tc.r.String(); got != tc.want {
			t.Errorf("Real(%v).String() = %q, want %q", float64(tc.r), got, tc.want)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if MakeInteger(3) != Natural(3) || MakeInteger(-3) != Integer(-3) {
		t.Error("MakeInteger picked the wrong type")
	}

	if n, ok := ToInt(Real(2)); !ok || n != 2 {
		t.Errorf("ToInt(2.0) = %d, %v", n, ok)
	}
	if _, ok := ToInt(Real(2.5)); ok {
		t.Error("ToInt(2.5) succeeded")
	}
	if _, ok := ToInt(String("2")); ok {
		t.Error("ToInt(\"2\") succeeded")
	}

	tests := []struct {
		vs   []Value
		want string
	}{
		{[]Value{Natural(1), Natural(2)}, TypeNatural},
		{[]Value{Natural(1), Integer(-2)}, TypeInteger},
		{[]Value{Integer(1), Real(2)}, TypeReal},
		{[]Value{Natural(1), String("x")}, ""},
	}
	for _, tc := range tests {
		if got := Widest(tc.vs...); got != tc.want {
			t.Errorf("Widest(%v) = %q, want %q", tc.vs, got, tc.want)
		}
	}
}

func TestBuiltinString(t *testing.T) {
	b := &Builtin{
		Name:   "seq",
		Params: []Param{{Name: "from"}, {Name: "to"}, {Name: "by", Default: Natural(1)}, {Name: "rest", Ellipsis: true}},
	}
	if got := b.String(); got != "<builtin seq(from, to, by=1, ...rest)>" {
		t.Errorf("String() = %q", got)
	}
	if b.Type() != TypeFunction {
		t.Errorf("Type() = %q", b.Type())
	}
}
