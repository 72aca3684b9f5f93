package interp

import (
	"math"
	"strings"

	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Builtin functions
// ---------------------------------------------------------------------------

func (in *Interpreter) installBuiltins() {
	in.DefineBuiltins([]*value.Builtin{
		{Name: "v", Params: []param{{Name: "x", Ellipsis: true}}, Fn: builtinVector},
		{Name: "print", Params: []param{{Name: "x", Ellipsis: true}}, Fn: in.builtinPrint},
		{Name: "length", Params: []param{{Name: "x"}}, Fn: builtinLength},
		{Name: "sum", Params: []param{{Name: "x"}}, Fn: builtinSum},
		{Name: "mean", Params: []param{{Name: "x"}}, Fn: builtinMean},
		{Name: "seq", Params: []param{{Name: "from"}, {Name: "to"}, {Name: "by", Default: value.Natural(1)}}, Fn: builtinSeq},
		{Name: "rep", Params: []param{{Name: "x"}, {Name: "times"}}, Fn: builtinRep},
		{Name: "abs", Params: []param{{Name: "x"}}, Fn: mathFunc(absolute)},
		{Name: "sqrt", Params: []param{{Name: "x"}}, Fn: mathFunc(realFunc(math.Sqrt))},
		{Name: "exp", Params: []param{{Name: "x"}}, Fn: mathFunc(realFunc(math.Exp))},
		{Name: "ln", Params: []param{{Name: "x"}}, Fn: mathFunc(realFunc(math.Log))},
		{Name: "type", Params: []param{{Name: "x"}}, Fn: builtinType},
		{Name: "ls", Fn: in.builtinLs},
		{Name: "quit", Fn: builtinQuit},
		{Name: "q", Fn: builtinQuit},
	})
}

// param is shorthand for value.Param in builtin tables.
type param = value.Param

// builtinVector flattens its arguments into one vector.
func builtinVector(args []value.Value) (value.Value, error) {
	var out []value.Value
	for _, a := range args[0].(*value.Vector).Elements() {
		r, err := value.Resolve(a)
		if err != nil {
			return nil, err
		}
		if vec, ok := r.(*value.Vector); ok {
			out = append(out, vec.Elements()...)
			continue
		}
		out = append(out, a)
	}
	return value.NewVector(out...), nil
}

func (in *Interpreter) builtinPrint(args []value.Value) (value.Value, error) {
	elems := args[0].(*value.Vector).Elements()
	parts := make([]string, len(elems))
	for i, a := range elems {
		r, err := value.Resolve(a)
		if err != nil {
			return nil, err
		}
		parts[i] = display(r)
	}
	in.print(strings.Join(parts, " "))
	return nil, nil
}

// display renders strings without quotes.
func display(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return string(s)
	}
	return v.String()
}

func builtinLength(args []value.Value) (value.Value, error) {
	r, err := value.Resolve(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := r.(value.Container); ok {
		return value.Natural(c.Len()), nil
	}
	if value.IsNull(r) {
		return value.Natural(0), nil
	}
	return value.Natural(1), nil
}

// numbers resolves v to a list of plain numbers. A scalar is a list of
// one.
func numbers(v value.Value) ([]value.Value, error) {
	r, err := value.Resolve(v)
	if err != nil {
		return nil, err
	}
	elems := []value.Value{r}
	if c, ok := r.(value.Container); ok {
		elems = c.Elements()
	}
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		x, err := value.Resolve(e)
		if err != nil {
			return nil, err
		}
		if !value.IsNumeric(x) {
			return nil, value.TypeMismatchf("expected numbers, got %s", x.Type())
		}
		out[i] = x
	}
	return out, nil
}

func builtinSum(args []value.Value) (value.Value, error) {
	xs, err := numbers(args[0])
	if err != nil {
		return nil, err
	}
	if value.Widest(xs...) == value.TypeReal {
		var s float64
		for _, x := range xs {
			f, _ := value.ToFloat(x)
			s += f
		}
		return value.Real(s), nil
	}
	var s int64
	for _, x := range xs {
		n, _ := value.ToInt(x)
		s += n
	}
	return value.MakeInteger(s), nil
}

func builtinMean(args []value.Value) (value.Value, error) {
	xs, err := numbers(args[0])
	if err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, value.TypeMismatchf("mean of an empty vector")
	}
	var s float64
	for _, x := range xs {
		f, _ := value.ToFloat(x)
		s += f
	}
	return value.Real(s / float64(len(xs))), nil
}

func builtinSeq(args []value.Value) (value.Value, error) {
	xs := make([]value.Value, 3)
	for i, a := range args {
		r, err := value.Resolve(a)
		if err != nil {
			return nil, err
		}
		if !value.IsNumeric(r) {
			return nil, value.TypeMismatchf("seq needs numbers, got %s", r.Type())
		}
		xs[i] = r
	}
	from, _ := value.ToFloat(xs[0])
	to, _ := value.ToFloat(xs[1])
	by, _ := value.ToFloat(xs[2])
	if by == 0 || (to-from)*by < 0 {
		return nil, value.TypeMismatchf("seq: step %v cannot reach %v from %v", by, to, from)
	}

	integral := value.Widest(xs...) != value.TypeReal
	steps := math.Floor((to-from)/by + 1e-10)
	if !(steps < MaxRangeLength) {
		return nil, value.IndexOutOfRangef("seq(%v, %v, by = %v) is longer than %d elements", from, to, by, MaxRangeLength)
	}
	out := make([]value.Value, int(steps)+1)
	for i := range out {
		x := from + float64(i)*by
		if integral {
			out[i] = value.MakeInteger(int64(x))
		} else {
			out[i] = value.Real(x)
		}
	}
	return value.NewVector(out...), nil
}

func builtinRep(args []value.Value) (value.Value, error) {
	t, err := value.Resolve(args[1])
	if err != nil {
		return nil, err
	}
	times, ok := value.ToInt(t)
	if !ok || times < 0 {
		return nil, value.TypeMismatchf("rep: times must be a non-negative integer, got %s", t)
	}
	if times > MaxRangeLength {
		return nil, value.IndexOutOfRangef("rep: %d repetitions is more than %d", times, MaxRangeLength)
	}
	out := make([]value.Value, times)
	for i := range out {
		out[i] = byValue(args[0])
	}
	return value.NewVector(out...), nil
}

// mathFunc lifts a scalar function to vectors, applying it elementwise.
func mathFunc(f func(value.Value) (value.Value, error)) func([]value.Value) (value.Value, error) {
	var apply func(value.Value) (value.Value, error)
	apply = func(v value.Value) (value.Value, error) {
		r, err := value.Resolve(v)
		if err != nil {
			return nil, err
		}
		vec, ok := r.(*value.Vector)
		if !ok {
			return f(r)
		}
		out := make([]value.Value, vec.Len())
		for i, e := range vec.Elements() {
			if out[i], err = apply(e); err != nil {
				return nil, err
			}
		}
		return value.NewVector(out...), nil
	}
	return func(args []value.Value) (value.Value, error) {
		return apply(args[0])
	}
}

func realFunc(f func(float64) float64) func(value.Value) (value.Value, error) {
	return func(v value.Value) (value.Value, error) {
		x, ok := value.ToFloat(v)
		if !ok {
			return nil, value.TypeMismatchf("expected a number, got %s", v.Type())
		}
		return value.Real(f(x)), nil
	}
}

func absolute(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Natural:
		return n, nil
	case value.Integer:
		if n < 0 {
			n = -n
		}
		return value.MakeInteger(int64(n)), nil
	case value.Real:
		return value.Real(math.Abs(float64(n))), nil
	}
	return nil, value.TypeMismatchf("expected a number, got %s", v.Type())
}

func builtinType(args []value.Value) (value.Value, error) {
	return value.String(args[0].Type()), nil
}

// builtinLs lists the user variables of the global scope.
func (in *Interpreter) builtinLs([]value.Value) (value.Value, error) {
	for _, name := range in.global.Names() {
		if in.builtinNames[name] {
			continue
		}
		v, _ := in.global.LookupLocal(name)
		in.print(name + " = " + v.Value().String())
	}
	return nil, nil
}

func builtinQuit([]value.Value) (value.Value, error) {
	return nil, ErrQuit
}
