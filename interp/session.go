package interp

import (
	"errors"
	"io"

	"github.com/chazu/tilde/parser"
)

// Status is the outcome of processing one chunk of interactive input.
type Status int

const (
	// StatusComplete means every statement in the input was executed.
	StatusComplete Status = iota
	// StatusIncomplete means the input ended inside a statement; the host
	// should read more lines and resubmit the residue with them.
	StatusIncomplete
	// StatusError means parsing or evaluation failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIncomplete:
		return "incomplete"
	case StatusError:
		return "error"
	}
	return "complete"
}

// ProcessCommand parses and executes the statements in buf one at a time
// in the global scope, as a REPL does. Statements before an unfinished one
// are executed; the unfinished text is returned as the residue. A quit()
// call is reported as ErrQuit with StatusComplete.
func (in *Interpreter) ProcessCommand(buf string) (Status, string, error) {
	p := parser.NewParser(buf)
	for {
		st, err := p.ParseUnit()
		if err == io.EOF {
			return StatusComplete, "", nil
		}
		if err != nil {
			var se *parser.SyntaxError
			if errors.As(err, &se) && se.Incomplete {
				return StatusIncomplete, buf[p.UnitStart():], nil
			}
			return StatusError, "", err
		}

		errs, warnings := parser.Check(st)
		for _, w := range warnings {
			log.Warning(w.Error())
		}
		if len(errs) > 0 {
			return StatusError, "", errs
		}

		out, err := in.exec(st, in.global, true)
		if errors.Is(err, ErrQuit) {
			return StatusComplete, "", ErrQuit
		}
		if err != nil {
			return StatusError, "", err
		}
		if out.Flow == FlowReturn {
			return StatusComplete, "", nil
		}
	}
}
