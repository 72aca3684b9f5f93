package interp

import (
	"errors"
	"testing"

	"github.com/chazu/tilde/value"
)

const pointClass = `class Point {
  x = 0, y = 0
  function norm2() { return x * x + y * y }
  function move(dx) { this.x <- x + dx }
}
`

func TestClassMethods(t *testing.T) {
	in, _ := newTestInterp()
	src := pointClass + "p <- Point(3, y = 4)\nn <- p.norm2()\np.move(1)\nq <- p\nq.move(1)"
	if _, err := in.EvalString(src); err != nil {
		t.Fatal(err)
	}

	if got := lookup(t, in, "n"); got != value.Natural(25) {
		t.Errorf("norm2() = %v, want 25", got)
	}
	p := lookup(t, in, "p")
	if got := p.String(); got != "Point(x = 5, y = 4)" {
		t.Errorf("p = %s, want Point(x = 5, y = 4)", got)
	}
	if p.Type() != "Point" {
		t.Errorf("Type() = %q, want Point", p.Type())
	}
	if lookup(t, in, "q") != p {
		t.Error("assignment copied the object")
	}
}

func TestClassFields(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"defaults", pointClass + "Point().x", "0"},
		{"default sees earlier field", "class R { a = 1, b = a + 1 }\nR().b", "2"},
		{"field without default", "class Box { v }\ntype(Box().v)", `"Null"`},
		{"member assignment", pointClass + "p <- Point()\np.y <- 7\np.y", "7"},
		{"inherited fields and methods", pointClass + "class P3 : Point { z = 0 }\nr <- P3(1, 2, 3)\nr.norm2()", "5"},
		{"base Object adds nothing", "class Q : Object { a = 1 }\nQ().a", "1"},
		{"typed field converts", "class T { Real w = 1 }\ntype(T().w)", `"Real"`},
		{"class type", pointClass + "type(Point)", `"Class"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, tc.src).String(); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{pointClass + "Point(1, 2, 3)", ErrExtraArgument},
		{pointClass + "Point(z = 1)", ErrExtraArgument},
		{pointClass + "Point().z", ErrUndefinedVariable},
		{pointClass + "p <- Point()\np.z <- 1", ErrUndefinedVariable},
		{pointClass + "Point().norm3()", ErrUndefinedVariable},
		{"x <- 1\nx.y <- 2", ErrTypeMismatch},
	}
	for _, tc := range tests {
		in, _ := newTestInterp()
		if _, err := in.EvalString(tc.src); !errors.Is(err, tc.want) {
			t.Errorf("%q: error = %v, want %v", tc.src, err, tc.want)
		}
	}
}
