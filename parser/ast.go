package parser

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for tilde
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a half-open range [Start, End) in source code.
type Span struct {
	Start Position
	End   Position
}

// Join returns the smallest span covering s and o.
func (s Span) Join(o Span) Span {
	out := s
	if o.Start.Offset < out.Start.Offset {
		out.Start = o.Start
	}
	if o.End.Offset > out.End.Offset {
		out.End = o.End
	}
	return out
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// BoolLit represents true or false.
type BoolLit struct {
	SpanVal Span
	Value   bool
}

func (n *BoolLit) Span() Span { return n.SpanVal }
func (n *BoolLit) node()      {}
func (n *BoolLit) expr()      {}

// IntLit represents an integer literal. Literals are never negative;
// a leading minus is a unary operator.
type IntLit struct {
	SpanVal Span
	Value   int64
}

func (n *IntLit) Span() Span { return n.SpanVal }
func (n *IntLit) node()      {}
func (n *IntLit) expr()      {}

// RealLit represents a real literal.
type RealLit struct {
	SpanVal Span
	Value   float64
}

func (n *RealLit) Span() Span { return n.SpanVal }
func (n *RealLit) node()      {}
func (n *RealLit) expr()      {}

// StringLit represents a string literal.
type StringLit struct {
	SpanVal Span
	Value   string
}

func (n *StringLit) Span() Span { return n.SpanVal }
func (n *StringLit) node()      {}
func (n *StringLit) expr()      {}

// NullLit represents null.
type NullLit struct {
	SpanVal Span
}

func (n *NullLit) Span() Span { return n.SpanVal }
func (n *NullLit) node()      {}
func (n *NullLit) expr()      {}

// Constant holds an already-evaluated runtime value. It never comes out of
// the parser; Substitute produces it. The payload is opaque to this package
// and is shared, not copied, by Clone.
type Constant struct {
	SpanVal Span
	Value   any
}

func (n *Constant) Span() Span { return n.SpanVal }
func (n *Constant) node()      {}
func (n *Constant) expr()      {}

// VectorLit represents a bracketed element list [a, b, c].
type VectorLit struct {
	SpanVal  Span
	Elements []Expr
}

func (n *VectorLit) Span() Span { return n.SpanVal }
func (n *VectorLit) node()      {}
func (n *VectorLit) expr()      {}

// Ident represents a simple variable reference.
type Ident struct {
	SpanVal Span
	Name    string
}

func (n *Ident) Span() Span { return n.SpanVal }
func (n *Ident) node()      {}
func (n *Ident) expr()      {}

// IndexExpr represents base[index].
type IndexExpr struct {
	SpanVal Span
	Base    Expr
	Index   Expr
}

func (n *IndexExpr) Span() Span { return n.SpanVal }
func (n *IndexExpr) node()      {}
func (n *IndexExpr) expr()      {}

// MemberExpr represents base.name.
type MemberExpr struct {
	SpanVal Span
	Base    Expr
	Name    string
}

func (n *MemberExpr) Span() Span { return n.SpanVal }
func (n *MemberExpr) node()      {}
func (n *MemberExpr) expr()      {}

// Argument is one call argument, optionally labeled (name = value).
type Argument struct {
	SpanVal Span
	Label   string
	Value   Expr
}

// CallExpr represents a function call. When Fn is a *MemberExpr the call
// is a member-function call on the member's base.
type CallExpr struct {
	SpanVal Span
	Fn      Expr
	Args    []*Argument
}

func (n *CallExpr) Span() Span { return n.SpanVal }
func (n *CallExpr) node()      {}
func (n *CallExpr) expr()      {}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -x
	OpPos                // +x
	OpNot                // !x
	OpRef                // &x
)

var unaryOpNames = [...]string{OpNeg: "-", OpPos: "+", OpNot: "!", OpRef: "&"}

func (op UnaryOp) String() string { return unaryOpNames[op] }

// UnaryExpr represents a prefix operation.
type UnaryExpr struct {
	SpanVal Span
	Op      UnaryOp
	Operand Expr
}

func (n *UnaryExpr) Span() Span { return n.SpanVal }
func (n *UnaryExpr) node()      {}
func (n *UnaryExpr) expr()      {}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd    // &
	OpOr     // |
	OpAndAnd // &&
	OpOrOr   // ||
	OpRange  // :
)

var binaryOpNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&", OpOr: "|", OpAndAnd: "&&", OpOrOr: "||", OpRange: ":",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// BinaryExpr represents an infix operation.
type BinaryExpr struct {
	SpanVal Span
	Op      BinaryOp
	Left    Expr
	Right   Expr
}

func (n *BinaryExpr) Span() Span { return n.SpanVal }
func (n *BinaryExpr) node()      {}
func (n *BinaryExpr) expr()      {}

// AssignOp selects one of the three binding semantics.
type AssignOp int

const (
	AssignConstant      AssignOp = iota // <-
	AssignDeterministic                 // :=
	AssignStochastic                    // ~
)

var assignOpNames = [...]string{
	AssignConstant:      "<-",
	AssignDeterministic: ":=",
	AssignStochastic:    "~",
}

func (op AssignOp) String() string { return assignOpNames[op] }

// AssignExpr binds Target to Value. Target is an *Ident, *IndexExpr or
// *MemberExpr.
type AssignExpr struct {
	SpanVal Span
	Op      AssignOp
	Target  Expr
	Value   Expr
}

func (n *AssignExpr) Span() Span { return n.SpanVal }
func (n *AssignExpr) node()      {}
func (n *AssignExpr) expr()      {}

// TypeSpec names a declared type: Name, Dims pairs of [], and an optional
// reference flag (&).
type TypeSpec struct {
	Name string
	Dims int
	Ref  bool
}

func (t *TypeSpec) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	if t.Ref {
		sb.WriteString("&")
	}
	return sb.String()
}

// Formal is one parameter of a function or one field of a class.
type Formal struct {
	SpanVal  Span
	Type     *TypeSpec // nil when untyped
	Name     string
	Default  Expr // nil when required
	Ellipsis bool // ...name collects surplus positional arguments
}

// FuncLit represents a function value: function(formals) body.
type FuncLit struct {
	SpanVal    Span
	ReturnType *TypeSpec
	Formals    []*Formal
	Body       *Block
}

func (n *FuncLit) Span() Span { return n.SpanVal }
func (n *FuncLit) node()      {}
func (n *FuncLit) expr()      {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	SpanVal Span
	Expr    Expr
}

func (n *ExprStmt) Span() Span { return n.SpanVal }
func (n *ExprStmt) node()      {}
func (n *ExprStmt) stmt()      {}

// Block is a statement list. Braced is false for a single-statement body
// written without braces.
type Block struct {
	SpanVal    Span
	Statements []Stmt
	Braced     bool
}

func (n *Block) Span() Span { return n.SpanVal }
func (n *Block) node()      {}
func (n *Block) stmt()      {}

// IfStmt represents if (Cond) Then [else Else].
type IfStmt struct {
	SpanVal Span
	Cond    Expr
	Then    *Block
	Else    *Block // nil without an else branch
}

func (n *IfStmt) Span() Span { return n.SpanVal }
func (n *IfStmt) node()      {}
func (n *IfStmt) stmt()      {}

// ForStmt represents for (Var in Seq) Body.
type ForStmt struct {
	SpanVal Span
	Var     string
	Seq     Expr
	Body    *Block
}

func (n *ForStmt) Span() Span { return n.SpanVal }
func (n *ForStmt) node()      {}
func (n *ForStmt) stmt()      {}

// WhileStmt represents while (Cond) Body.
type WhileStmt struct {
	SpanVal Span
	Cond    Expr
	Body    *Block
}

func (n *WhileStmt) Span() Span { return n.SpanVal }
func (n *WhileStmt) node()      {}
func (n *WhileStmt) stmt()      {}

// NextStmt skips to the next loop iteration.
type NextStmt struct {
	SpanVal Span
}

func (n *NextStmt) Span() Span { return n.SpanVal }
func (n *NextStmt) node()      {}
func (n *NextStmt) stmt()      {}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	SpanVal Span
}

func (n *BreakStmt) Span() Span { return n.SpanVal }
func (n *BreakStmt) node()      {}
func (n *BreakStmt) stmt()      {}

// ReturnStmt leaves the current function. Value may be nil.
type ReturnStmt struct {
	SpanVal Span
	Value   Expr
}

func (n *ReturnStmt) Span() Span { return n.SpanVal }
func (n *ReturnStmt) node()      {}
func (n *ReturnStmt) stmt()      {}

// Declaration declares a typed variable: Real x, Real[] xs, Real& r.
type Declaration struct {
	SpanVal Span
	Type    *TypeSpec
	Name    string
}

func (n *Declaration) Span() Span { return n.SpanVal }
func (n *Declaration) node()      {}
func (n *Declaration) stmt()      {}

// FuncDef binds a named function: function [Type] name(formals) body.
type FuncDef struct {
	SpanVal Span
	Name    string
	Func    *FuncLit
}

func (n *FuncDef) Span() Span { return n.SpanVal }
func (n *FuncDef) node()      {}
func (n *FuncDef) stmt()      {}

// ClassDef represents class Name : Base { fields and methods }.
type ClassDef struct {
	SpanVal Span
	Name    string
	Base    string
	Fields  []*Formal
	Methods []*FuncDef
}

func (n *ClassDef) Span() Span { return n.SpanVal }
func (n *ClassDef) node()      {}
func (n *ClassDef) stmt()      {}

// HelpStmt represents ?topic.
type HelpStmt struct {
	SpanVal Span
	Topic   string
}

func (n *HelpStmt) Span() Span { return n.SpanVal }
func (n *HelpStmt) node()      {}
func (n *HelpStmt) stmt()      {}

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

// Program is a parsed source unit: a sequence of top-level statements.
type Program struct {
	SpanVal    Span
	Statements []Stmt
}

func (n *Program) Span() Span { return n.SpanVal }
func (n *Program) node()      {}

// IsReference reports whether e can be the target of an assignment.
func IsReference(e Expr) bool {
	switch e := e.(type) {
	case *Ident:
		return true
	case *IndexExpr:
		return IsReference(e.Base)
	case *MemberExpr:
		return true
	}
	return false
}

// RootName returns the identifier at the root of a reference chain
// (x for x, x[1], x.y[2]), or "" when there is none.
func RootName(e Expr) string {
	for {
		switch n := e.(type) {
		case *Ident:
			return n.Name
		case *IndexExpr:
			e = n.Base
		case *MemberExpr:
			e = n.Base
		default:
			return ""
		}
	}
}
