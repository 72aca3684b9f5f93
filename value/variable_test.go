package value

import (
	"errors"
	"testing"

	"github.com/chazu/tilde/parser"
)

func spec(name string, dims int) *parser.TypeSpec {
	return &parser.TypeSpec{Name: name, Dims: dims}
}

func TestIsA(t *testing.T) {
	tests := []struct {
		t, want string
		ok      bool
	}{
		{TypeNatural, TypeReal, true},
		{TypeNatural, TypeInteger, true},
		{TypeInteger, TypeReal, true},
		{TypeReal, TypeNatural, false},
		{TypeString, TypeReal, false},
		{"Natural[]", "Real[]", true},
		{"Natural[]", TypeReal, false},
		{"Real[][]", "Real[]", false},
		{"Point", TypeObject, true},
		{"Point[]", "Object[]", true},
		{TypeBool, "", true},
	}
	for _, tc := range tests {
		if got := IsA(tc.t, tc.want); got != tc.ok {
			t.Errorf("IsA(%q, %q) = %v, want %v", tc.t, tc.want, got, tc.ok)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		x    Value
		spec *parser.TypeSpec
		want Value
	}{
		{Natural(3), spec(TypeReal, 0), Real(3)},
		{Natural(3), spec(TypeInteger, 0), Integer(3)},
		{Natural(3), spec(TypeNatural, 0), Natural(3)},
		{Real(2), spec(TypeNatural, 0), Natural(2)},
		{Integer(-2), spec(TypeInteger, 0), Integer(-2)},
		{String("a"), spec(TypeString, 0), String("a")},
		{Bool(true), spec(TypeBool, 0), Bool(true)},
		{Null, spec(TypeReal, 0), Null},
		{Real(1.5), nil, Real(1.5)},
	}
	for _, tc := range tests {
		got, err := Convert(tc.x, tc.spec)
		if err != nil {
			t.Errorf("Convert(%v, %s): %v", tc.x, tc.spec, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Convert(%v, %s) = %#v, want %#v", tc.x, tc.spec, got, tc.want)
		}
	}
}

func TestConvertFails(t *testing.T) {
	tests := []struct {
		x    Value
		spec *parser.TypeSpec
	}{
		{Real(2.5), spec(TypeInteger, 0)},
		{Integer(-1), spec(TypeNatural, 0)},
		{Bool(true), spec(TypeReal, 0)},
		{String("1"), spec(TypeNatural, 0)},
		{Natural(1), spec(TypeReal, 1)},
		{NewVector(Natural(1)), spec(TypeReal, 0)},
		{NewVector(Real(0.5)), spec(TypeNatural, 1)},
	}
	for _, tc := range tests {
		if _, err := Convert(tc.x, tc.spec); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Convert(%v, %s) error = %v, want type mismatch", tc.x, tc.spec, err)
		}
	}
}

func TestConvertVector(t *testing.T) {
	got, err := Convert(NewVector(Natural(1), Natural(2)), spec(TypeReal, 1))
	if err != nil {
		t.Fatal(err)
	}
	if got.Type() != "Real[]" {
		t.Errorf("Type() = %q, want Real[]", got.Type())
	}
	if e, _ := got.(*Vector).Element(2); e != Real(2) {
		t.Errorf("element 2 = %#v, want Real(2)", e)
	}
}

func TestConvertKeepsNodes(t *testing.T) {
	n := &fixed{v: Real(0.5)}
	got, err := Convert(n, spec(TypeReal, 0))
	if err != nil {
		t.Fatal(err)
	}
	if got != Value(n) {
		t.Errorf("Convert replaced a conforming node with %v", got)
	}
}

func TestDeclaredVariable(t *testing.T) {
	v := NewDeclaredVariable("x", spec(TypeReal, 0))
	if !IsNull(v.Value()) {
		t.Errorf("initial value = %v, want NULL", v.Value())
	}
	if err := v.Set(Natural(2)); err != nil {
		t.Fatal(err)
	}
	if v.Value() != Real(2) {
		t.Errorf("value = %#v, want Real(2)", v.Value())
	}

	err := v.Set(String("two"))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Set(String) error = %v, want type mismatch", err)
	}
	if want := "type mismatch: cannot assign String to variable x of type Real"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if v.Value() != Real(2) {
		t.Errorf("failed Set changed the value to %v", v.Value())
	}

	xs := NewDeclaredVariable("xs", spec(TypeReal, 1))
	if c, ok := xs.Value().(*Vector); !ok || c.Len() != 0 {
		t.Errorf("dimensioned variable starts as %v, want empty vector", xs.Value())
	}
}

func TestVariableSetNil(t *testing.T) {
	v := NewVariable("a", nil)
	if !IsNull(v.Value()) {
		t.Errorf("NewVariable(nil) holds %v", v.Value())
	}
	v.Set(Natural(1))
	v.Set(nil)
	if !IsNull(v.Value()) {
		t.Errorf("Set(nil) left %v", v.Value())
	}
}

func TestReference(t *testing.T) {
	target := NewVariable("a", Natural(1))
	ref := NewReference(target)

	if ref.Name() != "a" || ref.Type() != TypeNatural {
		t.Errorf("reference = %s %s", ref.Name(), ref.Type())
	}
	if err := ref.SetCurrent(Real(2.5)); err != nil {
		t.Fatal(err)
	}
	if target.Value() != Real(2.5) {
		t.Errorf("target = %v, want 2.5", target.Value())
	}
	if got, _ := Resolve(ref); got != Real(2.5) {
		t.Errorf("Resolve(ref) = %v, want 2.5", got)
	}

	ref.SetName("other")
	if ref.Name() != "a" {
		t.Error("SetName renamed a reference")
	}

	if _, err := Convert(ref, &parser.TypeSpec{Name: TypeReal, Ref: true}); err != nil {
		t.Errorf("Convert(ref, Real&): %v", err)
	}
}
