package parser

import (
	"fmt"
	"strings"
)

// SyntaxError is a malformed token sequence.
type SyntaxError struct {
	Span Span
	Msg  string

	// Incomplete is set when the error was hit at end of input, so more
	// input could still turn the text into a valid unit.
	Incomplete bool

	// Warning marks advisory diagnostics from Check that do not prevent
	// evaluation.
	Warning bool
}

func (e *SyntaxError) Error() string {
	prefix := ""
	if e.Warning {
		prefix = "warning: "
	}
	return fmt.Sprintf("%sline %d, column %d: %s", prefix, e.Span.Start.Line, e.Span.Start.Column, e.Msg)
}

// ErrorList is a list of syntax errors reported together.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns l as an error, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}
