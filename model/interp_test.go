package model_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/tilde/interp"
	"github.com/chazu/tilde/model"
	"github.com/chazu/tilde/value"
)

func newInterp(seed uint64) (*interp.Interpreter, *bytes.Buffer) {
	in := interp.New()
	var out bytes.Buffer
	in.SetOutput(&out)
	lib := model.NewLibrary(seed)
	in.DefineBuiltins(lib.Builtins())
	in.SetHelper(lib)
	return in, &out
}

func global(t *testing.T, in *interp.Interpreter, name string) value.Value {
	t.Helper()
	v, err := in.Global().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return v.Value()
}

func TestStochasticAssignment(t *testing.T) {
	in, _ := newInterp(7)
	src := "mu ~ dnorm(0, 1)\nx ~ dnorm(mu, sd = 2)\nx.clamp(0.5)\nlp <- x.lnProbability()"
	if _, err := in.EvalString(src); err != nil {
		t.Fatal(err)
	}

	x, ok := global(t, in, "x").(*model.Stochastic)
	if !ok {
		t.Fatalf("x is %T, want *model.Stochastic", global(t, in, "x"))
	}
	if x.Name() != "x" || !x.IsClamped() {
		t.Errorf("x: name %q, clamped %v", x.Name(), x.IsClamped())
	}
	if got := x.Distribution().String(); got != "dnorm(mean=mu, sd=2)" {
		t.Errorf("x's distribution = %s", got)
	}
	if lp, ok := global(t, in, "lp").(value.Real); !ok || lp >= 0 {
		t.Errorf("lp = %v, want a negative Real", global(t, in, "lp"))
	}
}

func TestStochasticAssignmentNeedsDistribution(t *testing.T) {
	in, _ := newInterp(7)
	if _, err := in.EvalString("x ~ 5"); !errors.Is(err, interp.ErrTypeMismatch) {
		t.Errorf("x ~ 5: error = %v, want type mismatch", err)
	}
	if _, err := in.EvalString("y ~ dnorm(0, -1)"); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("dnorm(0, -1): error = %v, want invalid parameter", err)
	}
}

func TestSeededInterpreters(t *testing.T) {
	sample := func() string {
		in, _ := newInterp(99)
		v, err := in.EvalString("for (i in 1:3) { u[i] ~ dunif(0, 1) }\nu")
		if err != nil {
			t.Fatal(err)
		}
		return v.String()
	}
	if a, b := sample(), sample(); a != b {
		t.Errorf("equal seeds gave %s and %s", a, b)
	}
}

func TestDeterministicOverRandomVariable(t *testing.T) {
	in, _ := newInterp(3)
	src := "p ~ dunif(0, 1)\nq := 1 - p\np.clamp(0.25)\nq"
	v, err := in.EvalString(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := value.Resolve(v)
	if err != nil {
		t.Fatal(err)
	}
	if got != value.Real(0.75) {
		t.Errorf("q = %v, want 0.75", got)
	}
}

func TestDistributionHelp(t *testing.T) {
	in, out := newInterp(1)
	if status, _, err := in.ProcessCommand("?dnorm\n"); status != interp.StatusComplete || err != nil {
		t.Fatalf("ProcessCommand = %v, %v", status, err)
	}
	if !strings.HasPrefix(out.String(), "dnorm(mean=0, sd=1)") {
		t.Errorf("help output = %q", out.String())
	}
}
