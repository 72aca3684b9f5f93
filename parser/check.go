package parser

import "fmt"

// ---------------------------------------------------------------------------
// Checker: static checks run before evaluation
// ---------------------------------------------------------------------------

// Checker validates control flow and definitions in a parsed program.
// It reports break/next outside a loop and duplicate formal names as errors,
// and statements that can never run as warnings.
type Checker struct {
	errors   ErrorList
	warnings ErrorList

	loopDepth int
}

// Check runs a fresh Checker over n and returns its errors and warnings.
func Check(n Node) (errs, warnings ErrorList) {
	c := &Checker{}
	c.check(n)
	return c.errors, c.warnings
}

// Errors returns accumulated errors.
func (c *Checker) Errors() ErrorList {
	return c.errors
}

// Warnings returns accumulated warnings.
func (c *Checker) Warnings() ErrorList {
	return c.warnings
}

func (c *Checker) errorAt(n Node, format string, args ...interface{}) {
	c.errors = append(c.errors, &SyntaxError{Span: n.Span(), Msg: fmt.Sprintf(format, args...)})
}

func (c *Checker) warnAt(n Node, format string, args ...interface{}) {
	c.warnings = append(c.warnings, &SyntaxError{Span: n.Span(), Msg: fmt.Sprintf(format, args...), Warning: true})
}

func (c *Checker) check(n Node) {
	switch n := n.(type) {
	case nil:
	case *Program:
		c.checkStatements(n.Statements)
	case *Block:
		c.checkStatements(n.Statements)
	case *ForStmt:
		c.check(n.Seq)
		c.loop(n.Body)
	case *WhileStmt:
		c.check(n.Cond)
		c.loop(n.Body)
	case *BreakStmt:
		if c.loopDepth == 0 {
			c.errorAt(n, "break outside of a loop")
		}
	case *NextStmt:
		if c.loopDepth == 0 {
			c.errorAt(n, "next outside of a loop")
		}
	case *FuncLit:
		c.function(n)
	case *FuncDef:
		c.function(n.Func)
	case *ClassDef:
		c.formals(n.Fields)
		seen := make(map[string]bool)
		for _, f := range n.Fields {
			seen[f.Name] = true
		}
		for _, m := range n.Methods {
			if seen[m.Name] {
				c.errorAt(m, "member %q defined more than once in class %s", m.Name, n.Name)
			}
			seen[m.Name] = true
			c.function(m.Func)
		}
	default:
		for _, child := range Children(n) {
			c.check(child)
		}
	}
}

// checkStatements checks each statement and warns about any statement
// following an unconditional jump.
func (c *Checker) checkStatements(stmts []Stmt) {
	for i, st := range stmts {
		c.check(st)
		switch st.(type) {
		case *ReturnStmt, *BreakStmt, *NextStmt:
			if i+1 < len(stmts) {
				c.warnAt(stmts[i+1], "unreachable statement")
			}
			return
		}
	}
}

func (c *Checker) loop(body *Block) {
	c.loopDepth++
	c.check(body)
	c.loopDepth--
}

// function checks a function body. Loops enclosing the definition do not
// count for break and next inside it.
func (c *Checker) function(f *FuncLit) {
	c.formals(f.Formals)
	for _, formal := range f.Formals {
		c.check(formal.Default)
	}

	saved := c.loopDepth
	c.loopDepth = 0
	c.check(f.Body)
	c.loopDepth = saved
}

func (c *Checker) formals(fs []*Formal) {
	seen := make(map[string]bool)
	ellipsis := false
	for _, f := range fs {
		if seen[f.Name] {
			c.errors = append(c.errors, &SyntaxError{Span: f.SpanVal, Msg: fmt.Sprintf("duplicate parameter %q", f.Name)})
		}
		seen[f.Name] = true
		if f.Ellipsis {
			if ellipsis {
				c.errors = append(c.errors, &SyntaxError{Span: f.SpanVal, Msg: "more than one ... parameter"})
			}
			ellipsis = true
		}
	}
}
