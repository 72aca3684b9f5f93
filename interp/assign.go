package interp

import (
	"fmt"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Assignment
// ---------------------------------------------------------------------------

func (in *Interpreter) evalAssign(n *parser.AssignExpr, env *Environment) (value.Value, error) {
	rhs, err := in.eval(n.Value, env)
	if err != nil {
		return nil, err
	}

	var v value.Value
	switch n.Op {
	case parser.AssignConstant:
		if v, err = value.Snapshot(rhs); err != nil {
			return nil, err
		}
		nameFunction(n, v)

	case parser.AssignDeterministic:
		v = in.deterministic(n.Value, rhs, env)

	case parser.AssignStochastic:
		if v, err = in.stochastic(n, rhs, env); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported assignment %s", n.Op)
	}

	if err := in.assignTo(n.Target, v, env); err != nil {
		return nil, err
	}
	log.Debugf("%s %s %s", targetText(n.Target), n.Op, v.Type())
	return v, nil
}

// nameFunction gives a function literal bound by `name <- function...` the
// name it is bound to, for printing and argument errors.
func nameFunction(n *parser.AssignExpr, v value.Value) {
	c, ok := v.(*Closure)
	if !ok || c.name != "" {
		return
	}
	id, ok := n.Target.(*parser.Ident)
	if _, lit := n.Value.(*parser.FuncLit); ok && lit {
		c.name = id.Name
	}
}

// deterministic binds the expression rather than its value. A call that
// already produced a model node hands that node over as it is.
func (in *Interpreter) deterministic(e parser.Expr, rhs value.Value, env *Environment) value.Value {
	if _, isNode := rhs.(value.Node); isNode && !parser.IsReference(e) {
		return rhs
	}
	return newDeterministic(in, e, env)
}

// stochastic creates a random variable from the distribution on the right
// and names it after the target.
func (in *Interpreter) stochastic(n *parser.AssignExpr, rhs value.Value, env *Environment) (value.Value, error) {
	r, err := value.Resolve(rhs)
	if err != nil {
		return nil, err
	}
	d, ok := r.(value.Distribution)
	if !ok {
		return nil, value.TypeMismatchf("~ needs a distribution, got %s", r.Type())
	}
	rv, err := d.NewRandomVariable()
	if err != nil {
		return nil, err
	}
	name, err := in.displayName(n.Target, env)
	if err != nil {
		return nil, err
	}
	value.SetName(rv, name)
	return rv, nil
}

// displayName renders a target with its indices evaluated, e.g. x[2].
func (in *Interpreter) displayName(e parser.Expr, env *Environment) (string, error) {
	switch t := e.(type) {
	case *parser.Ident:
		return t.Name, nil
	case *parser.MemberExpr:
		base, err := in.displayName(t.Base, env)
		if err != nil {
			return "", err
		}
		return base + "." + t.Name, nil
	case *parser.IndexExpr:
		base, err := in.displayName(t.Base, env)
		if err != nil {
			return "", err
		}
		idx, err := in.evalIndex(t.Index, env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d]", base, idx), nil
	}
	return "", value.TypeMismatchf("cannot assign to %T", e)
}

func targetText(e parser.Expr) string {
	if name := parser.RootName(e); name != "" {
		return name
	}
	return "?"
}

// assignTo stores v in the variable, member or element named by target.
// Plain names are bound in the innermost scope.
func (in *Interpreter) assignTo(target parser.Expr, v value.Value, env *Environment) error {
	switch t := target.(type) {
	case *parser.Ident:
		return env.Create(t.Name).Set(v)

	case *parser.MemberExpr:
		variable, err := in.member(t, env)
		if err != nil {
			return err
		}
		return variable.Set(v)

	case *parser.IndexExpr:
		return in.assignIndexed(t, v, env)
	}
	return value.TypeMismatchf("cannot assign to %T", target)
}

// member returns the member variable named by t.
func (in *Interpreter) member(t *parser.MemberExpr, env *Environment) (*value.Variable, error) {
	base, err := in.eval(t.Base, env)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = value.Null
	}
	h, ok := memberHolder(base)
	if !ok {
		return nil, value.TypeMismatchf("%s has no members", base.Type())
	}
	return h.Member(t.Name)
}

// assignIndexed stores v in the element named by t, growing containers
// with Null and creating missing ones. Every index is evaluated and the
// path checked before anything is bound or grown, so a failed assignment
// leaves no trace. A variable visible only from an enclosing scope is
// copied into the innermost one; a declared variable is updated through a
// copy so that its type is reapplied as a whole.
func (in *Interpreter) assignIndexed(t *parser.IndexExpr, v value.Value, env *Environment) error {
	var chain []*parser.IndexExpr
	var root parser.Expr = t
	for {
		ix, ok := root.(*parser.IndexExpr)
		if !ok {
			break
		}
		chain = append(chain, ix)
		root = ix.Base
	}

	var variable *value.Variable
	var name string
	switch r := root.(type) {
	case *parser.Ident:
		name = r.Name
		variable, _ = env.LookupLocal(name)
	case *parser.MemberExpr:
		mv, err := in.member(r, env)
		if err != nil {
			return err
		}
		variable, name = mv, mv.Name()
	default:
		return value.TypeMismatchf("cannot index %T", root)
	}

	path := make([]int, len(chain))
	for i := range chain {
		ix := chain[len(chain)-1-i]
		idx, err := in.evalIndex(ix.Index, env)
		if err != nil {
			return err
		}
		if idx < 1 || idx > MaxRangeLength {
			return withSpan(value.IndexOutOfRangef("index %d", idx), ix.Index.Span())
		}
		path[i] = idx
	}

	var cur value.Value = value.Null
	if variable != nil {
		cur = variable.Value()
	} else if outer, err := env.Lookup(name); err == nil {
		cur = byValue(outer.Value())
	}
	if cur == nil {
		cur = value.Null
	}
	if err := checkPath(name, cur, path); err != nil {
		return err
	}

	vec, ok := cur.(*value.Vector)
	switch {
	case !ok:
		vec = value.NewVector()
	case variable != nil && variable.Spec() != nil:
		vec = vec.Copy().(*value.Vector)
	}
	if err := storeAt(vec, path, v); err != nil {
		return err
	}
	if variable == nil {
		variable = env.Create(name)
	}
	if value.Value(vec) != cur {
		return variable.Set(vec)
	}
	return nil
}

// checkPath reports whether an element can be stored at path inside c
// without replacing anything that is not a vector or Null.
func checkPath(name string, c value.Value, path []int) error {
	for i, idx := range path {
		switch cur := c.(type) {
		case *value.Vector:
			if i == len(path)-1 || idx > cur.Len() {
				return nil
			}
			c, _ = cur.Element(idx)
			continue
		case value.Node:
			return value.TypeMismatchf("cannot assign into an element of model node %s", name)
		}
		switch {
		case value.IsNull(c):
			return nil
		case i == 0:
			return value.TypeMismatchf("%s is not a vector", name)
		}
		return value.TypeMismatchf("%s cannot be indexed", c.Type())
	}
	return nil
}

// storeAt writes v at path inside vec, replacing Null elements on the way
// with new vectors.
func storeAt(vec *value.Vector, path []int, v value.Value) error {
	last := len(path) - 1
	for _, idx := range path[:last] {
		var inner *value.Vector
		if idx <= vec.Len() {
			el, _ := vec.Element(idx)
			inner, _ = el.(*value.Vector)
		}
		if inner == nil {
			inner = value.NewVector()
			if err := vec.SetElement(idx, inner); err != nil {
				return err
			}
		}
		vec = inner
	}
	return vec.SetElement(path[last], v)
}
