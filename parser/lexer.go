package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for tilde source
// ---------------------------------------------------------------------------

// Lexer tokenizes tilde source code.
type Lexer struct {
	input     string
	pos       int  // offset of ch
	readPos   int  // offset after ch
	ch        rune // current character, 0 at end of input
	line      int  // line of ch (1-based)
	lineStart int  // offset of the first byte of the current line
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPos
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		l.readPos = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

// peekChar returns the character after ch without consuming it.
func (l *Lexer) peekChar() rune {
	return l.peekCharN(1)
}

// peekCharN returns the n-th character after ch.
func (l *Lexer) peekCharN(n int) rune {
	off := l.readPos
	for i := 1; ; i++ {
		if off >= len(l.input) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(l.input[off:])
		if i == n {
			return r
		}
		off += size
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// position returns the position of ch.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.pos - l.lineStart + 1,
	}
}

func (l *Lexer) token(tt TokenType, lit string, start Position) Token {
	return Token{Type: tt, Literal: lit, Pos: start, End: l.position()}
}

// single consumes one character and returns a token of type tt.
func (l *Lexer) single(tt TokenType, start Position) Token {
	lit := string(l.ch)
	l.readChar()
	return l.token(tt, lit, start)
}

// pair consumes ch and, if the next character is second, that too.
func (l *Lexer) pair(second rune, two TokenType, one TokenType, start Position) Token {
	first := l.ch
	l.readChar()
	if l.ch == second {
		l.readChar()
		return l.token(two, string(first)+string(second), start)
	}
	return l.token(one, string(first), start)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	start := l.position()

	if l.atEnd() {
		return l.token(TokenEOF, "", start)
	}

	switch ch := l.ch; {
	case ch == '\n':
		return l.single(TokenNewline, start)

	case isDigit(ch), ch == '.' && isDigit(l.peekChar()):
		return l.readNumber(start)

	case isIdentStart(ch):
		ident := l.readIdentifier()
		return l.token(LookupIdent(ident), ident, start)

	case ch == '"':
		return l.readString(start)

	case ch == '<':
		l.readChar()
		switch l.ch {
		case '-':
			l.readChar()
			return l.token(TokenArrow, "<-", start)
		case '=':
			l.readChar()
			return l.token(TokenLe, "<=", start)
		}
		return l.token(TokenLt, "<", start)

	case ch == '>':
		return l.pair('=', TokenGe, TokenGt, start)
	case ch == ':':
		return l.pair('=', TokenEquation, TokenColon, start)
	case ch == '=':
		return l.pair('=', TokenEq, TokenEqual, start)
	case ch == '!':
		return l.pair('=', TokenNe, TokenBang, start)
	case ch == '&':
		return l.pair('&', TokenAndAnd, TokenAnd, start)
	case ch == '|':
		return l.pair('|', TokenOrOr, TokenOr, start)

	case ch == '~':
		return l.single(TokenTilde, start)
	case ch == '+':
		return l.single(TokenPlus, start)
	case ch == '-':
		return l.single(TokenMinus, start)
	case ch == '*':
		return l.single(TokenStar, start)
	case ch == '/':
		return l.single(TokenSlash, start)
	case ch == '^':
		return l.single(TokenCaret, start)
	case ch == '(':
		return l.single(TokenLParen, start)
	case ch == ')':
		return l.single(TokenRParen, start)
	case ch == '[':
		return l.single(TokenLBracket, start)
	case ch == ']':
		return l.single(TokenRBracket, start)
	case ch == '{':
		return l.single(TokenLBrace, start)
	case ch == '}':
		return l.single(TokenRBrace, start)
	case ch == ',':
		return l.single(TokenComma, start)
	case ch == ';':
		return l.single(TokenSemicolon, start)
	case ch == '.':
		return l.single(TokenDot, start)
	case ch == '?':
		return l.single(TokenQuestion, start)
	}

	ch := l.ch
	l.readChar()
	return l.token(TokenError, fmt.Sprintf("unexpected character %q", ch), start)
}

// Tokenize scans the whole input. The last token is always TokenEOF.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

// skipWhitespaceAndComments skips blanks and # comments. Newlines are
// significant and are left in place.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f':
			l.readChar()
		case l.ch == '#':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readNumber reads an integer or real literal.
func (l *Lexer) readNumber(start Position) Token {
	begin := l.pos
	tt := TokenInt

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		tt = TokenReal
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharN(2))) {
			tt = TokenReal
			l.readChar() // e
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.token(tt, l.input[begin:l.pos], start)
}

func (l *Lexer) readIdentifier() string {
	begin := l.pos
	for isIdentPart(l.ch) && !l.atEnd() {
		l.readChar()
	}
	return l.input[begin:l.pos]
}

// readString reads a double-quoted string. The token literal holds the
// unescaped contents.
func (l *Lexer) readString(start Position) Token {
	l.readChar() // opening quote

	var sb strings.Builder
	for {
		if l.atEnd() {
			tok := l.token(TokenError, "unterminated string", start)
			tok.Unterminated = true
			return tok
		}
		switch l.ch {
		case '"':
			l.readChar()
			return l.token(TokenString, sb.String(), start)
		case '\\':
			l.readChar()
			if l.atEnd() {
				continue
			}
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(l.ch)
			}
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
