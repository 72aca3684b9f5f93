package interp

import (
	"fmt"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Expression evaluation
// ---------------------------------------------------------------------------

// eval evaluates e in env. Operands are evaluated left to right before the
// operator is applied. A nil result means "no value".
func (in *Interpreter) eval(e parser.Expr, env *Environment) (value.Value, error) {
	v, err := in.evalExpr(e, env)
	if err != nil {
		return nil, withSpan(err, e.Span())
	}
	return v, nil
}

func (in *Interpreter) evalExpr(e parser.Expr, env *Environment) (value.Value, error) {
	switch n := e.(type) {
	case *parser.BoolLit:
		return value.Bool(n.Value), nil
	case *parser.IntLit:
		return value.Natural(n.Value), nil
	case *parser.RealLit:
		return value.Real(n.Value), nil
	case *parser.StringLit:
		return value.String(n.Value), nil
	case *parser.NullLit:
		return value.Null, nil

	case *parser.Constant:
		v, ok := n.Value.(value.Value)
		if !ok {
			return nil, fmt.Errorf("constant of unsupported type %T", n.Value)
		}
		return v, nil

	case *parser.VectorLit:
		elems := make([]value.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			v, err := in.eval(el, env)
			if err != nil {
				return nil, err
			}
			elems = append(elems, byValue(v))
		}
		return value.NewVector(elems...), nil

	case *parser.Ident:
		variable, err := env.Lookup(n.Name)
		if err != nil {
			return nil, err
		}
		return variable.Value(), nil

	case *parser.IndexExpr:
		return in.evalIndexExpr(n, env)

	case *parser.MemberExpr:
		return in.evalMember(n, env)

	case *parser.CallExpr:
		return in.evalCall(n, env)

	case *parser.UnaryExpr:
		if n.Op == parser.OpRef {
			return in.reference(n.Operand, env)
		}
		operand, err := in.eval(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return unaryOp(n.Op, operand)

	case *parser.BinaryExpr:
		left, err := in.eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return binaryOp(n.Op, left, right)

	case *parser.AssignExpr:
		return in.evalAssign(n, env)

	case *parser.FuncLit:
		return newClosure("", n, env), nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

// byValue copies mutable containers so the copy can change independently.
func byValue(v value.Value) value.Value {
	if c, ok := v.(value.Copier); ok {
		return c.Copy()
	}
	return v
}

// evalIndex evaluates an index expression to a 1-based position.
func (in *Interpreter) evalIndex(e parser.Expr, env *Environment) (int, error) {
	v, err := in.eval(e, env)
	if err != nil {
		return 0, err
	}
	r, err := value.Resolve(v)
	if err != nil {
		return 0, err
	}
	i, ok := value.ToInt(r)
	if !ok {
		return 0, withSpan(value.TypeMismatchf("index must be an integer, got %s", r), e.Span())
	}
	return int(i), nil
}

func (in *Interpreter) evalIndexExpr(n *parser.IndexExpr, env *Environment) (value.Value, error) {
	base, err := in.eval(n.Base, env)
	if err != nil {
		return nil, err
	}
	idx, err := in.evalIndex(n.Index, env)
	if err != nil {
		return nil, err
	}
	r, err := value.Resolve(base)
	if err != nil {
		return nil, err
	}
	c, ok := r.(value.Container)
	if !ok {
		return nil, value.TypeMismatchf("%s cannot be indexed", r.Type())
	}
	return c.Element(idx)
}

// memberHolder returns the member capability of v or of its payload.
func memberHolder(v value.Value) (value.MemberHolder, bool) {
	if h, ok := v.(value.MemberHolder); ok {
		return h, true
	}
	if r, err := value.Resolve(v); err == nil {
		h, ok := r.(value.MemberHolder)
		return h, ok
	}
	return nil, false
}

// methodHolder returns the method capability of v or of its payload.
func methodHolder(v value.Value) (value.MethodHolder, bool) {
	if h, ok := v.(value.MethodHolder); ok {
		return h, true
	}
	if r, err := value.Resolve(v); err == nil {
		h, ok := r.(value.MethodHolder)
		return h, ok
	}
	return nil, false
}

func (in *Interpreter) evalMember(n *parser.MemberExpr, env *Environment) (value.Value, error) {
	base, err := in.eval(n.Base, env)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = value.Null
	}
	if h, ok := memberHolder(base); ok {
		if mv, err := h.Member(n.Name); err == nil {
			return mv.Value(), nil
		}
	}
	if h, ok := methodHolder(base); ok {
		if m, ok := h.Method(n.Name); ok {
			return m, nil
		}
	}
	return nil, errorf(ErrUndefinedVariable, "%s has no member %q", base.Type(), n.Name)
}

// reference evaluates &x to a live reference to the variable x.
func (in *Interpreter) reference(e parser.Expr, env *Environment) (value.Value, error) {
	switch t := e.(type) {
	case *parser.Ident:
		v, err := env.Lookup(t.Name)
		if err != nil {
			return nil, err
		}
		return value.NewReference(v), nil
	case *parser.MemberExpr:
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
		mv, err := h.Member(t.Name)
		if err != nil {
			return nil, err
		}
		return value.NewReference(mv), nil
	}
	return nil, value.TypeMismatchf("& needs a variable")
}
