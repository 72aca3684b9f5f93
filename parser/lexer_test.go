package parser

import (
	"testing"
)

func TestLexerOperators(t *testing.T) {
	input := `<- ~ := == != <= >= < > && || & | + - * / ^ = ( ) [ ] { } , ; : . ! ?`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenArrow, "<-"},
		{TokenTilde, "~"},
		{TokenEquation, ":="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenLe, "<="},
		{TokenGe, ">="},
		{TokenLt, "<"},
		{TokenGt, ">"},
		{TokenAndAnd, "&&"},
		{TokenOrOr, "||"},
		{TokenAnd, "&"},
		{TokenOr, "|"},
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenCaret, "^"},
		{TokenEqual, "="},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBracket, "["},
		{TokenRBracket, "]"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenComma, ","},
		{TokenSemicolon, ";"},
		{TokenColon, ":"},
		{TokenDot, "."},
		{TokenBang, "!"},
		{TokenQuestion, "?"},
		{TokenEOF, ""},
	}

	l := NewLexer(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, exp.typ)
		}
		if tok.Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, tok.Literal, exp.lit)
		}
	}
}

func TestLexerArrowWithoutSpaces(t *testing.T) {
	toks := NewLexer("a<-1").Tokenize()
	want := []TokenType{TokenIdent, TokenArrow, TokenInt, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("token[%d] type = %v, want %v", i, toks[i].Type, typ)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		lit   string
	}{
		{"42", TokenInt, "42"},
		{"0", TokenInt, "0"},
		{"3.14", TokenReal, "3.14"},
		{".5", TokenReal, ".5"},
		{"1e-3", TokenReal, "1e-3"},
		{"2E+5", TokenReal, "2E+5"},
		{"6e2", TokenReal, "6e2"},
		{"1e", TokenInt, "1"},
		{"7.", TokenInt, "7"},
	}

	for _, tc := range tests {
		tok := NewLexer(tc.input).NextToken()
		if tok.Type != tc.typ {
			t.Errorf("Lexer(%q): type = %v, want %v", tc.input, tok.Type, tc.typ)
		}
		if tok.Literal != tc.lit {
			t.Errorf("Lexer(%q): literal = %q, want %q", tc.input, tok.Literal, tc.lit)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"\q"`, `\q`},
	}

	for _, tc := range tests {
		tok := NewLexer(tc.input).NextToken()
		if tok.Type != TokenString {
			t.Errorf("Lexer(%s): type = %v, want STRING", tc.input, tok.Type)
			continue
		}
		if tok.Literal != tc.want {
			t.Errorf("Lexer(%s): literal = %q, want %q", tc.input, tok.Literal, tc.want)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	tok := NewLexer(`"abc`).NextToken()
	if tok.Type != TokenError {
		t.Fatalf("type = %v, want ERROR", tok.Type)
	}
	if !tok.Unterminated {
		t.Error("expected Unterminated to be set")
	}
}

func TestLexerKeywords(t *testing.T) {
	for _, kw := range Keywords() {
		tok := NewLexer(kw).NextToken()
		if tok.Type == TokenIdent {
			t.Errorf("Lexer(%q): keyword lexed as a name", kw)
		}
		if tok.Type.String() != kw {
			t.Errorf("Lexer(%q): type = %v", kw, tok.Type)
		}
	}

	for _, name := range []string{"Real", "x1", "_tmp", "forx", "nullable", "σ"} {
		tok := NewLexer(name).NextToken()
		if tok.Type != TokenIdent || tok.Literal != name {
			t.Errorf("Lexer(%q) = %v %q, want NAME", name, tok.Type, tok.Literal)
		}
	}
}

func TestLexerNewlinesAndComments(t *testing.T) {
	input := "a # first\n\n  b # second"
	want := []TokenType{TokenIdent, TokenNewline, TokenNewline, TokenIdent, TokenEOF}

	toks := NewLexer(input).Tokenize()
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Errorf("token[%d] type = %v, want %v", i, toks[i].Type, typ)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	toks := NewLexer("a\n  bc <- 1").Tokenize()
	bc := toks[2]
	if bc.Literal != "bc" {
		t.Fatalf("token[2] = %q, want bc", bc.Literal)
	}
	if bc.Pos.Line != 2 || bc.Pos.Column != 3 || bc.Pos.Offset != 4 {
		t.Errorf("bc starts at %d:%d (offset %d), want 2:3 (offset 4)", bc.Pos.Line, bc.Pos.Column, bc.Pos.Offset)
	}
	if bc.End.Column != 5 {
		t.Errorf("bc ends at column %d, want 5", bc.End.Column)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	toks := NewLexer("a @ b").Tokenize()
	if toks[1].Type != TokenError {
		t.Fatalf("token[1] type = %v, want ERROR", toks[1].Type)
	}
	if toks[1].Literal != `unexpected character '@'` {
		t.Errorf("token[1] literal = %q", toks[1].Literal)
	}
	if toks[2].Type != TokenIdent {
		t.Errorf("lexing did not resume after the error: %v", toks[2])
	}
}
