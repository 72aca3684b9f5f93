package interp

import (
	"fmt"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Statement execution and control flow
// ---------------------------------------------------------------------------

// Flow says how a statement finished.
type Flow int

const (
	FlowNormal Flow = iota
	FlowBreak
	FlowContinue
	FlowReturn
)

func (f Flow) String() string {
	switch f {
	case FlowBreak:
		return "break"
	case FlowContinue:
		return "next"
	case FlowReturn:
		return "return"
	}
	return "normal"
}

// Outcome is the result of executing a statement. Value is the statement's
// value for FlowNormal, the payload for FlowReturn, and nil when there is
// no value.
type Outcome struct {
	Flow  Flow
	Value value.Value
}

// exec executes one statement. top is set for statements run from the
// top level, including the bodies of if, for and while reached from there;
// it enables echo.
func (in *Interpreter) exec(st parser.Stmt, env *Environment, top bool) (Outcome, error) {
	out, err := in.execStmt(st, env, top)
	if err != nil {
		return Outcome{}, withSpan(err, st.Span())
	}
	return out, nil
}

func (in *Interpreter) execStmt(st parser.Stmt, env *Environment, top bool) (Outcome, error) {
	switch n := st.(type) {
	case *parser.ExprStmt:
		v, err := in.eval(n.Expr, env)
		if err != nil {
			return Outcome{}, err
		}
		if top && in.echo {
			in.echoValue(n.Expr, v)
		}
		return Outcome{Value: v}, nil

	case *parser.Block:
		return in.execBlock(n, env, top)

	case *parser.IfStmt:
		cond, err := in.condition(n.Cond, env)
		if err != nil {
			return Outcome{}, err
		}
		switch {
		case cond:
			return in.execBlock(n.Then, env, top)
		case n.Else != nil:
			return in.execBlock(n.Else, env, top)
		}
		return Outcome{}, nil

	case *parser.ForStmt:
		return in.execFor(n, env, top)

	case *parser.WhileStmt:
		return in.execWhile(n, env, top)

	case *parser.NextStmt:
		return Outcome{Flow: FlowContinue}, nil

	case *parser.BreakStmt:
		return Outcome{Flow: FlowBreak}, nil

	case *parser.ReturnStmt:
		var v value.Value
		if n.Value != nil {
			var err error
			if v, err = in.eval(n.Value, env); err != nil {
				return Outcome{}, err
			}
		}
		return Outcome{Flow: FlowReturn, Value: v}, nil

	case *parser.Declaration:
		env.Declare(n.Name, n.Type)
		log.Debugf("declared %s %s", n.Type, n.Name)
		return Outcome{}, nil

	case *parser.FuncDef:
		env.Define(n.Name, newClosure(n.Name, n.Func, env))
		log.Debugf("defined function %s", n.Name)
		return Outcome{}, nil

	case *parser.ClassDef:
		env.Define(n.Name, in.defineClass(n, env))
		return Outcome{}, nil

	case *parser.HelpStmt:
		in.help(n.Topic)
		return Outcome{}, nil
	}
	return Outcome{}, fmt.Errorf("unsupported statement %T", st)
}

// execBlock runs a statement list. Any outcome other than FlowNormal stops
// the list and is handed to the caller unchanged.
func (in *Interpreter) execBlock(b *parser.Block, env *Environment, top bool) (Outcome, error) {
	var last Outcome
	for _, st := range b.Statements {
		out, err := in.exec(st, env, top)
		if err != nil {
			return Outcome{}, err
		}
		if out.Flow != FlowNormal {
			return out, nil
		}
		last = out
	}
	return last, nil
}

// execFor binds the loop variable in the current scope, so it stays
// visible after the loop, as in R.
func (in *Interpreter) execFor(n *parser.ForStmt, env *Environment, top bool) (Outcome, error) {
	seq, err := in.eval(n.Seq, env)
	if err != nil {
		return Outcome{}, err
	}
	r, err := value.Resolve(seq)
	if err != nil {
		return Outcome{}, err
	}
	c, ok := r.(value.Container)
	if !ok {
		return Outcome{}, value.TypeMismatchf("for loop needs a container, got %s", r.Type())
	}

	elems := c.Elements()
	log.Debugf("for %s over %d elements", n.Var, len(elems))

	env.pushLoop(n.Var)
	defer env.popLoop()

	for _, el := range elems {
		if err := env.Create(n.Var).Set(el); err != nil {
			return Outcome{}, err
		}
		out, err := in.execBlock(n.Body, env, top)
		if err != nil {
			return Outcome{}, err
		}
		switch out.Flow {
		case FlowBreak:
			return Outcome{}, nil
		case FlowReturn:
			return out, nil
		}
	}
	return Outcome{}, nil
}

func (in *Interpreter) execWhile(n *parser.WhileStmt, env *Environment, top bool) (Outcome, error) {
	for {
		cond, err := in.condition(n.Cond, env)
		if err != nil {
			return Outcome{}, err
		}
		if !cond {
			return Outcome{}, nil
		}
		out, err := in.execBlock(n.Body, env, top)
		if err != nil {
			return Outcome{}, err
		}
		switch out.Flow {
		case FlowBreak:
			return Outcome{}, nil
		case FlowReturn:
			return out, nil
		}
	}
}

// condition evaluates e and converts it to a boolean.
func (in *Interpreter) condition(e parser.Expr, env *Environment) (bool, error) {
	v, err := in.eval(e, env)
	if err != nil {
		return false, err
	}
	b, err := value.ToBool(v)
	if err != nil {
		return false, withSpan(err, e.Span())
	}
	return b, nil
}

// echoValue prints the value of an expression statement. Assignments and
// calls without a value are silent.
func (in *Interpreter) echoValue(e parser.Expr, v value.Value) {
	if v == nil {
		return
	}
	if _, ok := e.(*parser.AssignExpr); ok {
		return
	}
	in.print(v.String())
}

func (in *Interpreter) help(topic string) {
	if in.helper != nil {
		if text, ok := in.helper.Help(topic); ok {
			in.print(text)
			return
		}
	}
	in.print(fmt.Sprintf("No help available for %q", topic))
}
