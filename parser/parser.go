package parser

import (
	"fmt"
	"io"
	"strconv"
)

// ---------------------------------------------------------------------------
// Parser: recursive descent parser for tilde
// ---------------------------------------------------------------------------

// Parser parses tilde source code into an AST.
//
// Precedence, loosest to tightest: assignment (<- ~ :=), range (:),
// or (|| |), and (&& &), equality, relational, additive, multiplicative,
// unary (! - + &), exponent (^, right-associative), member access (.),
// call and index.
type Parser struct {
	tokens  []Token
	pos     int
	prevEnd Position // end of the last consumed token

	// nest tracks open brackets. An entry is true for ( and [, where
	// newlines are insignificant, and false for {, where they separate
	// statements.
	nest []bool

	unitStart int // byte offset of the unit being parsed
	errors    ErrorList
}

// bailout aborts the current unit after an error has been recorded.
type bailout struct{}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{tokens: NewLexer(input).Tokenize()}
}

// Parse parses a whole program. The returned program holds every unit that
// parsed cleanly; the error, if any, is an ErrorList.
func Parse(input string) (*Program, error) {
	p := NewParser(input)
	prog := p.ParseProgram()
	return prog, p.Errors().Err()
}

// ParseExpr parses input as a single expression.
func ParseExpr(input string) (Expr, error) {
	p := NewParser(input)
	st, err := p.ParseUnit()
	if err == io.EOF {
		return nil, &SyntaxError{Msg: "empty expression", Incomplete: true}
	}
	if err != nil {
		return nil, err
	}
	es, ok := st.(*ExprStmt)
	if !ok {
		return nil, &SyntaxError{Span: st.Span(), Msg: "not an expression"}
	}
	if _, err := p.ParseUnit(); err != io.EOF {
		if err == nil {
			err = &SyntaxError{Span: p.cur().Span(), Msg: "unexpected input after expression"}
		}
		return nil, err
	}
	return es.Expr, nil
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() ErrorList {
	return p.errors
}

// UnitStart returns the byte offset where the most recent unit began.
func (p *Parser) UnitStart() int {
	return p.unitStart
}

// ---------------------------------------------------------------------------
// Token handling
// ---------------------------------------------------------------------------

func (p *Parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *Parser) curIs(t TokenType) bool {
	return p.cur().Type == t
}

// nested reports whether newlines are currently insignificant.
func (p *Parser) nested() bool {
	return len(p.nest) > 0 && p.nest[len(p.nest)-1]
}

// nextToken consumes the current token.
func (p *Parser) nextToken() {
	p.prevEnd = p.cur().End
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	if p.nested() {
		p.skipNewlines()
	}
}

// peek returns the token n places ahead, looking through newlines when
// they are insignificant.
func (p *Parser) peek(n int) Token {
	i := p.pos
	for k := 0; k < n && i < len(p.tokens)-1; k++ {
		i++
		for p.nested() && p.tokens[i].Type == TokenNewline && i < len(p.tokens)-1 {
			i++
		}
	}
	return p.tokens[i]
}

func (p *Parser) skipNewlines() {
	for p.curIs(TokenNewline) {
		p.pos++
	}
}

// skipSeparators skips newlines and semicolons between statements.
func (p *Parser) skipSeparators() {
	for p.curIs(TokenNewline) || p.curIs(TokenSemicolon) {
		p.pos++
	}
}

// open consumes an opening bracket and enters its newline mode.
func (p *Parser) open(t TokenType) {
	p.expect(t)
	p.nest = append(p.nest, t != TokenLBrace)
	if p.nested() {
		p.skipNewlines()
	}
}

// close consumes the closing bracket matching the innermost open one.
func (p *Parser) close(t TokenType) {
	if !p.curIs(t) {
		p.failf("expected %s, got %s", t, describe(p.cur()))
	}
	p.nest = p.nest[:len(p.nest)-1]
	p.nextToken()
}

// expect consumes a token of type t or fails.
func (p *Parser) expect(t TokenType) Token {
	tok := p.cur()
	if tok.Type != t {
		p.failf("expected %s, got %s", t, describe(tok))
	}
	p.nextToken()
	return tok
}

func (p *Parser) span(start Position) Span {
	return Span{Start: start, End: p.prevEnd}
}

// failf records an error at the current token and aborts the unit.
func (p *Parser) failf(format string, args ...interface{}) {
	p.failAt(p.cur(), format, args...)
}

func (p *Parser) failAt(tok Token, format string, args ...interface{}) {
	p.failSpan(tok.Span(), tok.Type == TokenEOF || tok.Unterminated, format, args...)
}

func (p *Parser) failSpan(span Span, incomplete bool, format string, args ...interface{}) {
	p.errors = append(p.errors, &SyntaxError{
		Span:       span,
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: incomplete,
	})
	panic(bailout{})
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenError:
		return tok.Literal
	case TokenIdent:
		return fmt.Sprintf("name %q", tok.Literal)
	case TokenString:
		return fmt.Sprintf("string %q", tok.Literal)
	case TokenInt, TokenReal:
		return fmt.Sprintf("number %s", tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Type.String())
}

// isTerminator reports whether t ends a statement.
func isTerminator(t TokenType) bool {
	switch t {
	case TokenNewline, TokenSemicolon, TokenEOF, TokenRBrace:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Units and programs
// ---------------------------------------------------------------------------

// ParseUnit parses the next top-level statement. It returns io.EOF when the
// input is exhausted. After a syntax error the parser skips to the next
// top-level statement boundary, so ParseUnit can be called again.
func (p *Parser) ParseUnit() (st Stmt, err error) {
	p.nest = p.nest[:0]
	p.skipSeparators()
	p.unitStart = p.cur().Pos.Offset
	if p.curIs(TokenEOF) {
		return nil, io.EOF
	}

	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			st = nil
			err = p.errors[len(p.errors)-1]
			p.synchronize(start)
		}
	}()

	st = p.parseStatement()
	if !p.curIs(TokenNewline) && !p.curIs(TokenSemicolon) && !p.curIs(TokenEOF) {
		p.failf("unexpected %s", describe(p.cur()))
	}
	return st, nil
}

// synchronize moves past the failed unit to the next separator outside
// any brackets.
func (p *Parser) synchronize(from int) {
	failed := p.pos
	depth := 0
	for i := from; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case TokenLParen, TokenLBracket, TokenLBrace:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if depth > 0 {
				depth--
			}
		case TokenNewline, TokenSemicolon:
			if depth == 0 && i >= failed {
				p.pos = i
				return
			}
		case TokenEOF:
			p.pos = i
			return
		}
	}
}

// ParseProgram parses all units, collecting errors instead of stopping at
// the first one.
func (p *Parser) ParseProgram() *Program {
	prog := &Program{}
	first := p.cur().Pos
	for {
		st, err := p.ParseUnit()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		prog.Statements = append(prog.Statements, st)
	}
	prog.SpanVal = Span{Start: first, End: p.cur().End}
	return prog
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *Parser) parseStatement() Stmt {
	tok := p.cur()
	switch tok.Type {
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		return p.parseWhile()
	case TokenNext:
		p.nextToken()
		return &NextStmt{SpanVal: tok.Span()}
	case TokenBreak:
		p.nextToken()
		return &BreakStmt{SpanVal: tok.Span()}
	case TokenReturn:
		return p.parseReturn()
	case TokenLBrace:
		return p.parseBlock()
	case TokenClass:
		return p.parseClassDef()
	case TokenQuestion:
		return p.parseHelp()
	case TokenFunction:
		if p.peek(1).Type != TokenLParen {
			return p.parseFuncDef()
		}
	case TokenIdent:
		if p.isDeclaration() {
			return p.parseDeclaration()
		}
	}

	e := p.parseExpr()
	return &ExprStmt{SpanVal: e.Span(), Expr: e}
}

// parseBody parses a braced block or a single statement.
func (p *Parser) parseBody() *Block {
	p.skipNewlines()
	if p.curIs(TokenLBrace) {
		return p.parseBlock()
	}
	if p.curIs(TokenEOF) {
		p.failf("expected statement, got end of input")
	}
	st := p.parseStatement()
	return &Block{SpanVal: st.Span(), Statements: []Stmt{st}}
}

func (p *Parser) parseBlock() *Block {
	start := p.cur().Pos
	p.open(TokenLBrace)

	var stmts []Stmt
	for {
		p.skipSeparators()
		if p.curIs(TokenRBrace) {
			break
		}
		if p.curIs(TokenEOF) {
			p.failf("expected }, got end of input")
		}
		stmts = append(stmts, p.parseStatement())
		if !isTerminator(p.cur().Type) {
			p.failf("unexpected %s", describe(p.cur()))
		}
	}
	p.close(TokenRBrace)

	return &Block{SpanVal: p.span(start), Statements: stmts, Braced: true}
}

// parseCondition parses a parenthesized condition.
func (p *Parser) parseCondition() Expr {
	p.open(TokenLParen)
	cond := p.parseExpr()
	p.close(TokenRParen)
	return cond
}

func (p *Parser) parseIf() *IfStmt {
	start := p.expect(TokenIf).Pos
	cond := p.parseCondition()
	then := p.parseBody()

	stmt := &IfStmt{Cond: cond, Then: then}

	// else may follow on a later line
	save := p.pos
	p.skipNewlines()
	if p.curIs(TokenElse) {
		p.nextToken()
		stmt.Else = p.parseBody()
	} else {
		p.pos = save
	}

	stmt.SpanVal = p.span(start)
	return stmt
}

func (p *Parser) parseFor() *ForStmt {
	start := p.expect(TokenFor).Pos
	p.open(TokenLParen)
	name := p.expect(TokenIdent).Literal
	p.expect(TokenIn)
	seq := p.parseExpr()
	p.close(TokenRParen)
	body := p.parseBody()
	return &ForStmt{SpanVal: p.span(start), Var: name, Seq: seq, Body: body}
}

func (p *Parser) parseWhile() *WhileStmt {
	start := p.expect(TokenWhile).Pos
	cond := p.parseCondition()
	body := p.parseBody()
	return &WhileStmt{SpanVal: p.span(start), Cond: cond, Body: body}
}

func (p *Parser) parseReturn() *ReturnStmt {
	start := p.expect(TokenReturn).Pos
	stmt := &ReturnStmt{}
	if !isTerminator(p.cur().Type) {
		stmt.Value = p.parseExpr()
	}
	stmt.SpanVal = p.span(start)
	return stmt
}

func (p *Parser) parseHelp() *HelpStmt {
	start := p.expect(TokenQuestion).Pos
	tok := p.cur()
	if tok.Type != TokenIdent && LookupIdent(tok.Literal) == TokenIdent {
		p.failf("expected help topic, got %s", describe(tok))
	}
	p.nextToken()
	return &HelpStmt{SpanVal: p.span(start), Topic: tok.Literal}
}

// isDeclaration reports whether the tokens at the cursor read as
// Type name, Type[] name or Type& name followed by the end of the
// statement.
func (p *Parser) isDeclaration() bool {
	i := 1
	for p.peek(i).Type == TokenLBracket && p.peek(i+1).Type == TokenRBracket {
		i += 2
	}
	if p.peek(i).Type == TokenAnd {
		i++
	}
	return p.peek(i).Type == TokenIdent && isTerminator(p.peek(i+1).Type)
}

func (p *Parser) parseDeclaration() *Declaration {
	start := p.cur().Pos
	ts := p.parseTypeSpec()
	name := p.expect(TokenIdent).Literal
	return &Declaration{SpanVal: p.span(start), Type: ts, Name: name}
}

func (p *Parser) parseTypeSpec() *TypeSpec {
	ts := &TypeSpec{Name: p.expect(TokenIdent).Literal}
	for p.curIs(TokenLBracket) && p.peek(1).Type == TokenRBracket {
		p.nextToken()
		p.nextToken()
		ts.Dims++
	}
	if p.curIs(TokenAnd) {
		p.nextToken()
		ts.Ref = true
	}
	return ts
}

// ---------------------------------------------------------------------------
// Definitions
// ---------------------------------------------------------------------------

// parseFuncDef parses function [Type] name(formals) body.
func (p *Parser) parseFuncDef() *FuncDef {
	start := p.expect(TokenFunction).Pos

	var ret *TypeSpec
	next := p.peek(1).Type
	if p.curIs(TokenIdent) && next != TokenLParen {
		ret = p.parseTypeSpec()
	}
	name := p.expect(TokenIdent).Literal
	formals := p.parseFormals()
	body := p.parseBody()

	fn := &FuncLit{SpanVal: p.span(start), ReturnType: ret, Formals: formals, Body: body}
	return &FuncDef{SpanVal: fn.SpanVal, Name: name, Func: fn}
}

// parseFuncLit parses function(formals) body.
func (p *Parser) parseFuncLit() *FuncLit {
	start := p.expect(TokenFunction).Pos
	formals := p.parseFormals()
	body := p.parseBody()
	return &FuncLit{SpanVal: p.span(start), Formals: formals, Body: body}
}

func (p *Parser) parseFormals() []*Formal {
	p.open(TokenLParen)
	var formals []*Formal
	for !p.curIs(TokenRParen) {
		formals = append(formals, p.parseFormal())
		if !p.curIs(TokenComma) {
			break
		}
		p.nextToken()
	}
	p.close(TokenRParen)
	return formals
}

// parseFormal parses [Type] name [= default] or ...name.
func (p *Parser) parseFormal() *Formal {
	start := p.cur().Pos
	f := &Formal{}

	if p.curIs(TokenDot) {
		for i := 0; i < 3; i++ {
			p.expect(TokenDot)
		}
		f.Ellipsis = true
		f.Name = p.expect(TokenIdent).Literal
		f.SpanVal = p.span(start)
		return f
	}

	switch p.peek(1).Type {
	case TokenIdent, TokenLBracket, TokenAnd:
		f.Type = p.parseTypeSpec()
	}
	f.Name = p.expect(TokenIdent).Literal
	if p.curIs(TokenEqual) {
		p.nextToken()
		p.skipNewlines()
		f.Default = p.parseExpr()
	}
	f.SpanVal = p.span(start)
	return f
}

// parseClassDef parses class Name [: Base] { members }.
func (p *Parser) parseClassDef() *ClassDef {
	start := p.expect(TokenClass).Pos
	cd := &ClassDef{Name: p.expect(TokenIdent).Literal}
	if p.curIs(TokenColon) {
		p.nextToken()
		cd.Base = p.expect(TokenIdent).Literal
	}
	p.skipNewlines()
	p.open(TokenLBrace)
	for {
		p.skipSeparators()
		if p.curIs(TokenRBrace) {
			break
		}
		switch p.cur().Type {
		case TokenEOF:
			p.failf("expected }, got end of input")
		case TokenFunction:
			cd.Methods = append(cd.Methods, p.parseFuncDef())
		case TokenIdent, TokenDot:
			cd.Fields = append(cd.Fields, p.parseFormal())
		default:
			p.failf("expected member definition, got %s", describe(p.cur()))
		}
		if p.curIs(TokenComma) {
			p.nextToken()
			continue
		}
		if !isTerminator(p.cur().Type) {
			p.failf("unexpected %s", describe(p.cur()))
		}
	}
	p.close(TokenRBrace)
	cd.SpanVal = p.span(start)
	return cd
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *Parser) parseExpr() Expr {
	return p.parseAssignment()
}

var assignOps = map[TokenType]AssignOp{
	TokenArrow:    AssignConstant,
	TokenEquation: AssignDeterministic,
	TokenTilde:    AssignStochastic,
}

// parseAssignment parses target op value. Assignment is right-associative.
func (p *Parser) parseAssignment() Expr {
	left := p.parseRange()

	op, ok := assignOps[p.cur().Type]
	if !ok {
		return left
	}
	if !IsReference(left) {
		p.failSpan(left.Span(), false, "cannot assign to this expression")
	}
	p.nextToken()
	p.skipNewlines()
	right := p.parseAssignment()

	return &AssignExpr{
		SpanVal: left.Span().Join(right.Span()),
		Op:      op,
		Target:  left,
		Value:   right,
	}
}

func (p *Parser) parseRange() Expr {
	left := p.parseOr()
	for p.curIs(TokenColon) {
		p.nextToken()
		p.skipNewlines()
		right := p.parseOr()
		left = &BinaryExpr{SpanVal: left.Span().Join(right.Span()), Op: OpRange, Left: left, Right: right}
	}
	return left
}

// parseBinaryLevel parses a left-associative chain of the operators in ops
// over operands produced by next.
func (p *Parser) parseBinaryLevel(next func() Expr, ops map[TokenType]BinaryOp) Expr {
	left := next()
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left
		}
		p.nextToken()
		p.skipNewlines()
		right := next()
		left = &BinaryExpr{SpanVal: left.Span().Join(right.Span()), Op: op, Left: left, Right: right}
	}
}

var (
	orOps   = map[TokenType]BinaryOp{TokenOrOr: OpOrOr, TokenOr: OpOr}
	andOps  = map[TokenType]BinaryOp{TokenAndAnd: OpAndAnd, TokenAnd: OpAnd}
	eqOps   = map[TokenType]BinaryOp{TokenEq: OpEq, TokenNe: OpNe}
	relOps  = map[TokenType]BinaryOp{TokenLt: OpLt, TokenLe: OpLe, TokenGt: OpGt, TokenGe: OpGe}
	addOps  = map[TokenType]BinaryOp{TokenPlus: OpAdd, TokenMinus: OpSub}
	mulOps  = map[TokenType]BinaryOp{TokenStar: OpMul, TokenSlash: OpDiv}
	unaryOp = map[TokenType]UnaryOp{TokenMinus: OpNeg, TokenPlus: OpPos, TokenBang: OpNot, TokenAnd: OpRef}
)

func (p *Parser) parseOr() Expr {
	return p.parseBinaryLevel(p.parseAnd, orOps)
}

func (p *Parser) parseAnd() Expr {
	return p.parseBinaryLevel(p.parseEquality, andOps)
}

func (p *Parser) parseEquality() Expr {
	return p.parseBinaryLevel(p.parseRelational, eqOps)
}

func (p *Parser) parseRelational() Expr {
	return p.parseBinaryLevel(p.parseAdditive, relOps)
}

func (p *Parser) parseAdditive() Expr {
	return p.parseBinaryLevel(p.parseMultiplicative, addOps)
}

func (p *Parser) parseMultiplicative() Expr {
	return p.parseBinaryLevel(p.parseUnary, mulOps)
}

// parseUnary parses prefix operators. They bind looser than ^, so -2^2
// is -(2^2).
func (p *Parser) parseUnary() Expr {
	tok := p.cur()
	op, ok := unaryOp[tok.Type]
	if !ok {
		return p.parseExponent()
	}
	p.nextToken()
	p.skipNewlines()
	operand := p.parseUnary()
	return &UnaryExpr{SpanVal: tok.Span().Join(operand.Span()), Op: op, Operand: operand}
}

// parseExponent parses base ^ exponent. The exponent may carry its own
// prefix operators and chains to the right.
func (p *Parser) parseExponent() Expr {
	base := p.parsePostfix()
	if !p.curIs(TokenCaret) {
		return base
	}
	p.nextToken()
	p.skipNewlines()
	exp := p.parseUnary()
	return &BinaryExpr{SpanVal: base.Span().Join(exp.Span()), Op: OpPow, Left: base, Right: exp}
}

// parsePostfix parses member access, calls and indexing chained onto a
// primary expression.
func (p *Parser) parsePostfix() Expr {
	e := p.parsePrimary()
	for {
		switch p.cur().Type {
		case TokenDot:
			p.nextToken()
			name := p.expect(TokenIdent).Literal
			e = &MemberExpr{SpanVal: Span{Start: e.Span().Start, End: p.prevEnd}, Base: e, Name: name}
		case TokenLParen:
			args := p.parseArgs()
			e = &CallExpr{SpanVal: Span{Start: e.Span().Start, End: p.prevEnd}, Fn: e, Args: args}
		case TokenLBracket:
			p.open(TokenLBracket)
			idx := p.parseExpr()
			p.close(TokenRBracket)
			e = &IndexExpr{SpanVal: Span{Start: e.Span().Start, End: p.prevEnd}, Base: e, Index: idx}
		default:
			return e
		}
	}
}

func (p *Parser) parseArgs() []*Argument {
	p.open(TokenLParen)
	var args []*Argument
	for !p.curIs(TokenRParen) {
		start := p.cur().Pos
		arg := &Argument{}
		if p.curIs(TokenIdent) && p.peek(1).Type == TokenEqual {
			arg.Label = p.cur().Literal
			p.nextToken()
			p.nextToken()
		}
		arg.Value = p.parseExpr()
		arg.SpanVal = p.span(start)
		args = append(args, arg)
		if !p.curIs(TokenComma) {
			break
		}
		p.nextToken()
	}
	p.close(TokenRParen)
	return args
}

func (p *Parser) parsePrimary() Expr {
	p.skipNewlines()
	tok := p.cur()

	switch tok.Type {
	case TokenInt:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.failf("integer literal %s out of range", tok.Literal)
		}
		p.nextToken()
		return &IntLit{SpanVal: tok.Span(), Value: v}

	case TokenReal:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.failf("invalid real literal %s", tok.Literal)
		}
		p.nextToken()
		return &RealLit{SpanVal: tok.Span(), Value: v}

	case TokenString:
		p.nextToken()
		return &StringLit{SpanVal: tok.Span(), Value: tok.Literal}

	case TokenTrue, TokenFalse:
		p.nextToken()
		return &BoolLit{SpanVal: tok.Span(), Value: tok.Type == TokenTrue}

	case TokenNull:
		p.nextToken()
		return &NullLit{SpanVal: tok.Span()}

	case TokenIdent:
		p.nextToken()
		return &Ident{SpanVal: tok.Span(), Name: tok.Literal}

	case TokenLParen:
		p.open(TokenLParen)
		e := p.parseExpr()
		p.close(TokenRParen)
		return e

	case TokenLBracket:
		return p.parseVector()

	case TokenFunction:
		return p.parseFuncLit()

	case TokenError:
		p.failf("%s", tok.Literal)
	}

	p.failf("unexpected %s", describe(tok))
	return nil
}

func (p *Parser) parseVector() *VectorLit {
	start := p.cur().Pos
	p.open(TokenLBracket)
	var elems []Expr
	for !p.curIs(TokenRBracket) {
		elems = append(elems, p.parseExpr())
		if !p.curIs(TokenComma) {
			break
		}
		p.nextToken()
	}
	p.close(TokenRBracket)
	return &VectorLit{SpanVal: p.span(start), Elements: elems}
}
