// Package interp evaluates tilde syntax trees: scope-chained environments,
// the three assignment semantics, control flow, closures and classes.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

var log = commonlog.GetLogger("tilde.interp")

// maxCallDepth bounds recursion of user-defined functions.
const maxCallDepth = 512

// Helper looks up help text for ?topic.
type Helper interface {
	Help(topic string) (string, bool)
}

// Interpreter holds the state of one independent evaluation context: its
// global scope, output stream and settings. Interpreters share nothing,
// and a single Interpreter must not be used from several goroutines at
// once.
type Interpreter struct {
	global *Environment
	out    io.Writer
	echo   bool
	helper Helper
	depth  int

	// builtinNames are hidden from ls().
	builtinNames map[string]bool
}

// New returns an interpreter with the builtin functions installed in a
// fresh global scope. Output goes to stdout and echo is off.
func New() *Interpreter {
	in := &Interpreter{
		global:       NewGlobal(),
		out:          os.Stdout,
		builtinNames: make(map[string]bool),
	}
	in.installBuiltins()
	return in
}

// Global returns the global scope.
func (in *Interpreter) Global() *Environment {
	return in.global
}

// SetOutput redirects printed and echoed output.
func (in *Interpreter) SetOutput(w io.Writer) {
	in.out = w
}

// SetEcho controls whether values of top-level expression statements are
// printed.
func (in *Interpreter) SetEcho(echo bool) {
	in.echo = echo
}

// SetHelper installs the help collaborator used by ?topic.
func (in *Interpreter) SetHelper(h Helper) {
	in.helper = h
}

// Define binds name to v in the global scope.
func (in *Interpreter) Define(name string, v value.Value) {
	in.global.Define(name, v)
}

// DefineBuiltins binds each builtin under its own name.
func (in *Interpreter) DefineBuiltins(bs []*value.Builtin) {
	for _, b := range bs {
		in.global.Define(b.Name, b)
		in.builtinNames[b.Name] = true
	}
}

// Evaluate runs prog in env and returns the value of its last statement,
// or the payload of a top-level return. Static checks run first; nothing is
// evaluated when they fail.
func (in *Interpreter) Evaluate(prog *parser.Program, env *Environment) (value.Value, error) {
	errs, warnings := parser.Check(prog)
	for _, w := range warnings {
		log.Warning(w.Error())
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var last value.Value
	for _, st := range prog.Statements {
		out, err := in.exec(st, env, true)
		if err != nil {
			return nil, err
		}
		last = out.Value
		if out.Flow == FlowReturn {
			break
		}
	}
	return last, nil
}

// EvalString parses src as a whole program and evaluates it in the global
// scope.
func (in *Interpreter) EvalString(src string) (value.Value, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return in.Evaluate(prog, in.global)
}

// RunFile evaluates the script at path in the global scope.
func (in *Interpreter) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	log.Infof("running %s", path)
	if _, err := in.EvalString(string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// print writes a line to the interpreter's output.
func (in *Interpreter) print(s string) {
	fmt.Fprintln(in.out, s)
}
