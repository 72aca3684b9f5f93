package interp

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

func TestFunctionCalls(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"default sees earlier formal", "f <- function(a, b=a+1){ return b }; f(5)", "6"},
		{"default overridden", "f <- function(a, b=a+1){ return b }; f(5, 1)", "1"},
		{"labeled before positional", "g <- function(a, b) { return a - b }\ng(b = 1, 5)", "4"},
		{"ellipsis collects the rest", "h <- function(first, ...rest) { return length(rest) }\nh(1, 2, 3)", "2"},
		{"empty ellipsis", "h <- function(...rest) { return length(rest) }\nh()", "0"},
		{"closure captures its scope", "make <- function(n) { return function(x) { return x + n } }\nadd2 <- make(2)\nadd2(5)", "7"},
		{"recursion", "fact <- function(n) {\n  if (n <= 1) { return 1 }\n  return n * fact(n - 1)\n}\nfact(5)", "120"},
		{"named definition", "function sq(x) { return x * x }\nsq(4)", "16"},
		{"typed return converts", "function Real half(x) { return x }\ntype(half(2))", `"Real"`},
		{"typed formal converts", "f <- function(Real x) { return type(x) }\nf(3)", `"Real"`},
		{"arguments are copies", "f <- function(xs) { xs[1] <- 0; return xs }\nw <- [1, 2]\nf(w)\nw", "[ 1, 2 ]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, tc.src).String(); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFunctionWithoutReturnHasNoValue(t *testing.T) {
	in, _ := newTestInterp()
	v, err := in.EvalString("f <- function() { 1 }\nf()")
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("f() = %v, want no value", v)
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"f <- function(a, b) { return a }\nf(1)", ErrMissingArgument},
		{"f <- function(a, b) { return a }\nf(b = 2)", ErrMissingArgument},
		{"f <- function(a) { return a }\nf(1, 2)", ErrExtraArgument},
		{"f <- function(a) { return a }\nf(c = 1)", ErrExtraArgument},
		{"f <- function(a) { return a }\nf(a = 1, a = 2)", ErrExtraArgument},
		{"length()", ErrMissingArgument},
		{"length(1, 2)", ErrExtraArgument},
		{"f <- function(Natural n) { return n }\nf(-1)", ErrTypeMismatch},
		{"function Natural g() { return 0.5 }\ng()", ErrTypeMismatch},
	}
	for _, tc := range tests {
		in, _ := newTestInterp()
		if _, err := in.EvalString(tc.src); !errors.Is(err, tc.want) {
			t.Errorf("%q: error = %v, want %v", tc.src, err, tc.want)
		}
	}
}

func TestMatchArgs(t *testing.T) {
	slots := []slot{{name: "a"}, {name: "b"}, {name: "rest", ellipsis: true}}
	args := []argValue{
		{value: value.Natural(1)},
		{label: "b", value: value.Natural(2)},
		{value: value.Natural(3)},
		{value: value.Natural(4)},
	}
	vals, filled, err := matchArgs("f", slots, args)
	if err != nil {
		t.Fatal(err)
	}
	for i, ok := range filled {
		if !ok {
			t.Errorf("slot %d not filled", i)
		}
	}
	if vals[0] != value.Natural(1) || vals[1] != value.Natural(2) {
		t.Errorf("a, b = %v, %v, want 1, 2", vals[0], vals[1])
	}
	if got := vals[2].String(); got != "[ 3, 4 ]" {
		t.Errorf("rest = %s, want [ 3, 4 ]", got)
	}

	// A label cannot name the ellipsis.
	_, _, err = matchArgs("f", slots, []argValue{{label: "rest", value: value.Null}})
	if !errors.Is(err, ErrExtraArgument) {
		t.Errorf("labeled ellipsis: error = %v, want extra argument", err)
	}
}

func TestCall(t *testing.T) {
	in, _ := newTestInterp()
	if _, err := in.EvalString("add <- function(a, b = 10) { return a + b }"); err != nil {
		t.Fatal(err)
	}
	fn := lookup(t, in, "add")

	v, err := in.Call(fn, value.Natural(1))
	if err != nil {
		t.Fatal(err)
	}
	if v != value.Natural(11) {
		t.Errorf("add(1) = %v, want 11", v)
	}

	if _, err := in.Call(value.Natural(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("calling a number: error = %v, want type mismatch", err)
	}
}

func TestMisplacedControl(t *testing.T) {
	in, _ := newTestInterp()

	// Executed without the static check, which would reject it.
	prog, err := parser.Parse("f <- function() { break }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := in.exec(prog.Statements[0], in.Global(), true); err != nil {
		t.Fatal(err)
	}
	if _, err := in.Call(lookup(t, in, "f")); !errors.Is(err, ErrMisplacedControl) {
		t.Errorf("error = %v, want misplaced control flow", err)
	}
}

func TestCallDepth(t *testing.T) {
	in, _ := newTestInterp()
	_, err := in.EvalString("f <- function(n) { return f(n + 1) }\nf(0)")
	if err == nil {
		t.Fatal("unbounded recursion did not fail")
	}
	if in.depth != 0 {
		t.Errorf("depth after failure = %d, want 0", in.depth)
	}
}

func TestClosureString(t *testing.T) {
	in, _ := newTestInterp()
	if _, err := in.EvalString("function f(Real x, y = 1, ...rest) { return x }"); err != nil {
		t.Fatal(err)
	}
	if got := lookup(t, in, "f").String(); got != "function f(Real x, y=..., ...rest)" {
		t.Errorf("String() = %q", got)
	}
}

func TestBoundFunctionLiteralIsNamed(t *testing.T) {
	in, _ := newTestInterp()
	_, err := in.EvalString("f <- function(a) { return a }\nf(b = 1)")
	if !errors.Is(err, ErrExtraArgument) {
		t.Fatalf("error = %v, want extra argument", err)
	}
	if !strings.Contains(err.Error(), `f() has no argument named "b"`) {
		t.Errorf("error %q does not name f", err)
	}

	if _, err := in.EvalString("g <- f"); err != nil {
		t.Fatal(err)
	}
	if got := lookup(t, in, "g").String(); got != "function f(a)" {
		t.Errorf("g = %q, want function f(a)", got)
	}
}
