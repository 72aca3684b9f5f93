package interp

import (
	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// Deterministic is a model node whose payload is an expression evaluated
// in its defining scope every time it is read, so it tracks the variables
// it mentions.
type Deterministic struct {
	in      *Interpreter
	expr    parser.Expr
	env     *Environment
	name    string
	reading bool
}

// newDeterministic captures e in env. Loop variables being iterated are
// frozen to their current values, so a node made in a loop body keeps the
// index it was made with.
func newDeterministic(in *Interpreter, e parser.Expr, env *Environment) *Deterministic {
	expr := parser.Clone(e)
	for _, lv := range env.activeLoops() {
		cur, err := value.Snapshot(lv.Value())
		if err != nil {
			continue
		}
		expr = parser.Substitute(expr, lv.Name(), cur)
	}
	return &Deterministic{in: in, expr: expr, env: env}
}

// Expr returns the captured expression.
func (d *Deterministic) Expr() parser.Expr { return d.expr }

func (d *Deterministic) Name() string        { return d.name }
func (d *Deterministic) SetName(name string) { d.name = name }

// Current evaluates the expression. A node that reaches itself while being
// read is a cycle.
func (d *Deterministic) Current() (value.Value, error) {
	if d.reading {
		return nil, value.TypeMismatchf("cyclic dependency through %s", d.label())
	}
	d.reading = true
	defer func() { d.reading = false }()
	log.Debugf("recomputing %s", d.label())

	v, err := d.in.eval(d.expr, d.env)
	if err != nil {
		return nil, err
	}
	return value.Resolve(v)
}

func (d *Deterministic) label() string {
	if d.name == "" {
		return "deterministic node"
	}
	return d.name
}

func (d *Deterministic) Type() string {
	v, err := d.Current()
	if err != nil {
		return value.TypeObject
	}
	return v.Type()
}

func (d *Deterministic) String() string {
	v, err := d.Current()
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return v.String()
}
