package interp

import (
	"fmt"
	"strings"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Functions and calls
// ---------------------------------------------------------------------------

// Closure is a user-defined function together with the scope it was
// defined in. Methods also carry the object they were looked up on.
type Closure struct {
	name string
	fn   *parser.FuncLit
	env  *Environment
	self *Object
}

func newClosure(name string, fn *parser.FuncLit, env *Environment) *Closure {
	return &Closure{name: name, fn: fn, env: env}
}

// Func returns the function's syntax tree.
func (c *Closure) Func() *parser.FuncLit { return c.fn }

func (c *Closure) Type() string { return value.TypeFunction }

func (c *Closure) String() string {
	parts := make([]string, len(c.fn.Formals))
	for i, f := range c.fn.Formals {
		s := f.Name
		if f.Ellipsis {
			s = "..." + s
		}
		if f.Type != nil {
			s = f.Type.String() + " " + s
		}
		if f.Default != nil {
			s += "=..."
		}
		parts[i] = s
	}
	name := c.name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("function %s(%s)", name, strings.Join(parts, ", "))
}

// argValue is an evaluated actual argument.
type argValue struct {
	label string
	value value.Value
	span  parser.Span
}

// fail locates err at the argument when it came from source text.
func (a argValue) fail(err error) error {
	if a.span.Start.Line == 0 {
		return err
	}
	return withSpan(err, a.span)
}

// slot is a formal parameter as seen by argument matching.
type slot struct {
	name     string
	ellipsis bool
}

func (in *Interpreter) evalCall(n *parser.CallExpr, env *Environment) (value.Value, error) {
	callee, err := in.eval(n.Fn, env)
	if err != nil {
		return nil, err
	}
	args := make([]argValue, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := in.eval(a.Value, env)
		if err != nil {
			return nil, err
		}
		if v == nil {
			v = value.Null
		}
		args = append(args, argValue{label: a.Label, value: byValue(v), span: a.SpanVal})
	}
	return in.callValue(callee, args)
}

// Call invokes a function value with positional arguments.
func (in *Interpreter) Call(fn value.Value, args ...value.Value) (value.Value, error) {
	avs := make([]argValue, len(args))
	for i, a := range args {
		avs[i] = argValue{value: a}
	}
	return in.callValue(fn, avs)
}

func (in *Interpreter) callValue(fn value.Value, args []argValue) (value.Value, error) {
	switch f := fn.(type) {
	case *Closure:
		return in.callClosure(f, args)
	case *value.Builtin:
		return in.callBuiltin(f, args)
	case *Class:
		return in.construct(f, args)
	}
	r, err := value.Resolve(fn)
	if err != nil {
		return nil, err
	}
	if r != fn {
		return in.callValue(r, args)
	}
	return nil, value.TypeMismatchf("%s is not a function", r.Type())
}

// matchArgs assigns actual arguments to slots: labeled arguments first by
// exact name, then positional ones left to right into the unfilled slots
// before the ellipsis. Surplus positional arguments go to the ellipsis,
// which is always filled with a (possibly empty) vector.
func matchArgs(fname string, slots []slot, args []argValue) ([]value.Value, []bool, error) {
	vals := make([]value.Value, len(slots))
	filled := make([]bool, len(slots))

	ellipsis := -1
	for i, s := range slots {
		if s.ellipsis {
			ellipsis = i
			break
		}
	}

	for _, a := range args {
		if a.label == "" {
			continue
		}
		i := -1
		for j, s := range slots {
			if s.name == a.label && !s.ellipsis {
				i = j
				break
			}
		}
		if i < 0 {
			return nil, nil, a.fail(errorf(ErrExtraArgument, "%s() has no argument named %q", fname, a.label))
		}
		if filled[i] {
			return nil, nil, a.fail(errorf(ErrExtraArgument, "argument %q given more than once to %s()", a.label, fname))
		}
		vals[i], filled[i] = a.value, true
	}

	limit := len(slots)
	if ellipsis >= 0 {
		limit = ellipsis
	}
	var rest []value.Value
	next := 0
	for _, a := range args {
		if a.label != "" {
			continue
		}
		for next < limit && filled[next] {
			next++
		}
		switch {
		case next < limit:
			vals[next], filled[next] = a.value, true
		case ellipsis >= 0:
			rest = append(rest, a.value)
		default:
			return nil, nil, a.fail(errorf(ErrExtraArgument, "too many arguments to %s(): %d given", fname, len(args)))
		}
	}

	if ellipsis >= 0 {
		vals[ellipsis], filled[ellipsis] = value.NewVector(rest...), true
	}
	return vals, filled, nil
}

func (in *Interpreter) callClosure(c *Closure, args []argValue) (value.Value, error) {
	if in.depth >= maxCallDepth {
		return nil, fmt.Errorf("call depth exceeds %d in %s()", maxCallDepth, c.displayName())
	}
	in.depth++
	defer func() { in.depth-- }()
	log.Debugf("call %s with %d arguments", c.displayName(), len(args))

	formals := c.fn.Formals
	slots := make([]slot, len(formals))
	for i, f := range formals {
		slots[i] = slot{name: f.Name, ellipsis: f.Ellipsis}
	}
	vals, filled, err := matchArgs(c.displayName(), slots, args)
	if err != nil {
		return nil, err
	}

	parent := c.env
	if c.self != nil {
		parent = c.self.scope(c.env)
	}
	scope := NewScope(parent)
	if c.self != nil {
		scope.Define("this", c.self)
	}

	// Supplied arguments are bound before any default is evaluated, and
	// defaults run in order in the call scope, so they may refer to other
	// formals.
	for i, f := range formals {
		if filled[i] {
			if err := bindFormal(scope, f, vals[i]); err != nil {
				return nil, err
			}
		}
	}
	for i, f := range formals {
		if filled[i] {
			continue
		}
		if f.Default == nil {
			return nil, errorf(ErrMissingArgument, "%s() needs argument %q", c.displayName(), f.Name)
		}
		v, err := in.eval(f.Default, scope)
		if err != nil {
			return nil, err
		}
		if err := bindFormal(scope, f, byValue(v)); err != nil {
			return nil, err
		}
	}

	out, err := in.execBlock(c.fn.Body, scope, false)
	if err != nil {
		return nil, err
	}
	var result value.Value
	switch out.Flow {
	case FlowBreak, FlowContinue:
		return nil, errorf(ErrMisplacedControl, "%s escapes function %s()", out.Flow, c.displayName())
	case FlowReturn:
		result = out.Value
	}

	if rt := c.fn.ReturnType; rt != nil && result != nil {
		conv, err := value.Convert(result, rt)
		if err != nil {
			return nil, value.TypeMismatchf("%s() returned %s, declared %s", c.displayName(), result.Type(), rt)
		}
		result = conv
	}
	return result, nil
}

func (c *Closure) displayName() string {
	if c.name == "" {
		return "function"
	}
	return c.name
}

func bindFormal(scope *Environment, f *parser.Formal, v value.Value) error {
	if f.Type == nil {
		scope.Define(f.Name, v)
		return nil
	}
	if err := scope.Declare(f.Name, f.Type).Set(v); err != nil {
		return fmt.Errorf("argument %q: %w", f.Name, err)
	}
	return nil
}

func (in *Interpreter) callBuiltin(b *value.Builtin, args []argValue) (value.Value, error) {
	slots := make([]slot, len(b.Params))
	for i, p := range b.Params {
		slots[i] = slot{name: p.Name, ellipsis: p.Ellipsis}
	}
	vals, filled, err := matchArgs(b.Name, slots, args)
	if err != nil {
		return nil, err
	}
	for i, p := range b.Params {
		if filled[i] {
			continue
		}
		if p.Default == nil {
			return nil, errorf(ErrMissingArgument, "%s() needs argument %q", b.Name, p.Name)
		}
		vals[i] = p.Default
	}
	return b.Fn(vals)
}
