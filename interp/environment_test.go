package interp

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

func TestEnvironmentLookup(t *testing.T) {
	global := NewGlobal()
	global.Define("a", value.Natural(1))
	inner := NewScope(NewScope(global))

	v, err := inner.Lookup("a")
	if err != nil {
		t.Fatal(err)
	}
	if v.Value() != value.Natural(1) {
		t.Errorf("a = %v, want 1", v.Value())
	}

	if _, ok := inner.LookupLocal("a"); ok {
		t.Error("LookupLocal found a binding from an outer scope")
	}
	if _, err := inner.Lookup("b"); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("Lookup(b) error = %v, want undefined variable", err)
	}
	if inner.Parent().Parent() != global || global.Parent() != nil {
		t.Error("scope chain is wrong")
	}
}

func TestEnvironmentCreateShadows(t *testing.T) {
	global := NewGlobal()
	outer := global.Define("a", value.Natural(1))
	inner := NewScope(global)

	local := inner.Create("a")
	if local == outer {
		t.Fatal("Create reused the outer variable")
	}
	if !value.IsNull(local.Value()) {
		t.Errorf("new variable holds %v, want NULL", local.Value())
	}
	local.Set(value.Natural(2))

	if inner.Create("a") != local {
		t.Error("Create did not return the existing local variable")
	}
	if outer.Value() != value.Natural(1) {
		t.Errorf("outer a = %v, want 1", outer.Value())
	}
}

func TestEnvironmentDeclare(t *testing.T) {
	env := NewGlobal()
	env.Define("x", value.String("old"))
	v := env.Declare("x", &parser.TypeSpec{Name: value.TypeReal})

	if err := v.Set(value.String("s")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Set(String) on a Real variable: %v", err)
	}
	if got, _ := env.Lookup("x"); got != v {
		t.Error("Declare did not replace the existing variable")
	}
}

func TestEnvironmentNames(t *testing.T) {
	env := NewGlobal()
	env.Create("b")
	env.Define("a", value.Null)
	env.Create("b")
	env.Declare("c", nil)

	want := []string{"b", "a", "c"}
	if got := env.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestActiveLoops(t *testing.T) {
	global := NewGlobal()
	global.Create("i")
	global.pushLoop("i")
	inner := NewScope(global)
	inner.Create("j")
	inner.pushLoop("j")
	inner.Create("i")
	inner.pushLoop("i")

	var names []string
	for _, v := range inner.activeLoops() {
		names = append(names, v.Name())
	}
	if want := []string{"i", "j"}; !reflect.DeepEqual(names, want) {
		t.Errorf("active loops = %v, want %v", names, want)
	}

	inner.popLoop()
	inner.popLoop()
	if got := len(inner.activeLoops()); got != 1 {
		t.Errorf("after popping: %d active loops, want 1", got)
	}
}
