package parser

import "fmt"

// ---------------------------------------------------------------------------
// Token types
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline

	// Literals
	TokenInt    // 42
	TokenReal   // 3.14, 1e-3
	TokenString // "hello"
	TokenIdent  // foo, Real

	// Keywords
	TokenFunction
	TokenClass
	TokenFor
	TokenIn
	TokenIf
	TokenElse
	TokenWhile
	TokenNext
	TokenBreak
	TokenReturn
	TokenTrue
	TokenFalse
	TokenNull

	// Assignment operators
	TokenArrow    // <-
	TokenTilde    // ~
	TokenEquation // :=

	// Operators
	TokenEq     // ==
	TokenNe     // !=
	TokenLe     // <=
	TokenGe     // >=
	TokenLt     // <
	TokenGt     // >
	TokenAndAnd // &&
	TokenOrOr   // ||
	TokenAnd    // &
	TokenOr     // |
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenCaret  // ^
	TokenEqual  // =

	// Punctuation
	TokenLParen    // (
	TokenRParen    // )
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenSemicolon // ;
	TokenColon     // :
	TokenDot       // .
	TokenBang      // !
	TokenQuestion  // ?
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenError:     "ERROR",
	TokenNewline:   "NEWLINE",
	TokenInt:       "INT",
	TokenReal:      "REAL",
	TokenString:    "STRING",
	TokenIdent:     "NAME",
	TokenFunction:  "function",
	TokenClass:     "class",
	TokenFor:       "for",
	TokenIn:        "in",
	TokenIf:        "if",
	TokenElse:      "else",
	TokenWhile:     "while",
	TokenNext:      "next",
	TokenBreak:     "break",
	TokenReturn:    "return",
	TokenTrue:      "true",
	TokenFalse:     "false",
	TokenNull:      "null",
	TokenArrow:     "<-",
	TokenTilde:     "~",
	TokenEquation:  ":=",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenLe:        "<=",
	TokenGe:        ">=",
	TokenLt:        "<",
	TokenGt:        ">",
	TokenAndAnd:    "&&",
	TokenOrOr:      "||",
	TokenAnd:       "&",
	TokenOr:        "|",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenCaret:     "^",
	TokenEqual:     "=",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenComma:     ",",
	TokenSemicolon: ";",
	TokenColon:     ":",
	TokenDot:       ".",
	TokenBang:      "!",
	TokenQuestion:  "?",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"function": TokenFunction,
	"class":    TokenClass,
	"for":      TokenFor,
	"in":       TokenIn,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"next":     TokenNext,
	"break":    TokenBreak,
	"return":   TokenReturn,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"null":     TokenNull,
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// LookupIdent returns the keyword token type for ident, or TokenIdent.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// ---------------------------------------------------------------------------
// Token
// ---------------------------------------------------------------------------

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // literal text (string tokens hold the unescaped value)
	Pos     Position // start position
	End     Position // position just past the token

	// Unterminated is set on error tokens for strings that reach end of
	// input without a closing quote.
	Unterminated bool
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "newline"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	case TokenString:
		return fmt.Sprintf("%q", t.Literal)
	default:
		return t.Literal
	}
}
