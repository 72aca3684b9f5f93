package interp

import (
	"errors"
	"fmt"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

var (
	// ErrUndefinedVariable reports a name bound in no enclosing scope.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrMissingArgument reports a required formal left without an argument.
	ErrMissingArgument = errors.New("missing argument")

	// ErrExtraArgument reports an argument no formal accepts.
	ErrExtraArgument = errors.New("extra argument")

	// ErrMisplacedControl reports break or next escaping a function body.
	ErrMisplacedControl = errors.New("misplaced control flow")

	// ErrQuit is returned by quit() to ask the host to stop.
	ErrQuit = errors.New("quit")

	// ErrTypeMismatch and ErrIndexOutOfRange are shared with the value
	// package so that errors.Is works on failures from either side.
	ErrTypeMismatch    = value.ErrTypeMismatch
	ErrIndexOutOfRange = value.ErrIndexOutOfRange
)

// Error is an evaluation failure located in the source.
type Error struct {
	Err  error
	Span parser.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Span.Start.Line, e.Span.Start.Column, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// withSpan attaches span to err unless it is already located.
func withSpan(err error, span parser.Span) error {
	var located *Error
	if errors.As(err, &located) || errors.Is(err, ErrQuit) {
		return err
	}
	var syntax *parser.SyntaxError
	if errors.As(err, &syntax) {
		return err
	}
	return &Error{Err: err, Span: span}
}

func errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
