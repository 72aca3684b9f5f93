package interp

import (
	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// Environment is one lexical scope in a chain of scopes. Each scope owns
// its variable table; values bound in those variables may be shared.
type Environment struct {
	parent *Environment
	vars   map[string]*value.Variable
	order  []string

	// loops names the for-loop variables currently being iterated in
	// this scope, innermost last.
	loops []string
}

// NewGlobal returns a root scope.
func NewGlobal() *Environment {
	return &Environment{vars: make(map[string]*value.Variable)}
}

// NewScope returns a scope nested in parent.
func NewScope(parent *Environment) *Environment {
	return &Environment{parent: parent, vars: make(map[string]*value.Variable)}
}

// newTableScope returns a scope backed by an existing variable table.
func newTableScope(parent *Environment, vars map[string]*value.Variable, order []string) *Environment {
	return &Environment{parent: parent, vars: vars, order: order}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Lookup searches the scope chain from innermost to outermost.
func (e *Environment) Lookup(name string) (*value.Variable, error) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, nil
		}
	}
	return nil, errorf(ErrUndefinedVariable, "%q", name)
}

// LookupLocal searches this scope only.
func (e *Environment) LookupLocal(name string) (*value.Variable, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Create returns the variable called name in this scope, adding one bound
// to Null when there is none. Outer bindings are shadowed, never reused.
func (e *Environment) Create(name string) *value.Variable {
	if v, ok := e.vars[name]; ok {
		return v
	}
	v := value.NewVariable(name, value.Null)
	e.insert(name, v)
	return v
}

// Declare adds a typed variable to this scope, replacing any existing one.
func (e *Environment) Declare(name string, spec *parser.TypeSpec) *value.Variable {
	v := value.NewDeclaredVariable(name, spec)
	e.insert(name, v)
	return v
}

// Define binds name to v in this scope without type conversion, replacing
// any existing variable.
func (e *Environment) Define(name string, v value.Value) *value.Variable {
	variable := value.NewVariable(name, v)
	e.insert(name, variable)
	return variable
}

func (e *Environment) insert(name string, v *value.Variable) {
	if _, ok := e.vars[name]; !ok {
		e.order = append(e.order, name)
	}
	e.vars[name] = v
}

// Names returns the names bound in this scope in insertion order.
func (e *Environment) Names() []string {
	return append([]string(nil), e.order...)
}

func (e *Environment) pushLoop(name string) {
	e.loops = append(e.loops, name)
}

func (e *Environment) popLoop() {
	e.loops = e.loops[:len(e.loops)-1]
}

// activeLoops returns the loop variables being iterated anywhere along the
// scope chain, without duplicates.
func (e *Environment) activeLoops() []*value.Variable {
	seen := make(map[string]bool)
	var out []*value.Variable
	for s := e; s != nil; s = s.parent {
		for i := len(s.loops) - 1; i >= 0; i-- {
			name := s.loops[i]
			if seen[name] {
				continue
			}
			seen[name] = true
			if v, ok := s.vars[name]; ok {
				out = append(out, v)
			}
		}
	}
	return out
}
