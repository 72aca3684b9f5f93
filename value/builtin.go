package value

import (
	"fmt"
	"strings"
)

// TypeFunction is the type name of callable values.
const TypeFunction = "Function"

// Param is one formal parameter of a builtin. A nil Default makes the
// parameter required unless it is an ellipsis, which collects surplus
// positional arguments into a *Vector.
type Param struct {
	Name     string
	Default  Value
	Ellipsis bool
}

// Builtin is a function implemented in Go. Fn receives one value per
// Param, in declaration order, after argument matching.
type Builtin struct {
	Name   string
	Params []Param
	Fn     func(args []Value) (Value, error)
}

func (b *Builtin) Type() string { return TypeFunction }

func (b *Builtin) String() string {
	parts := make([]string, len(b.Params))
	for i, p := range b.Params {
		switch {
		case p.Ellipsis:
			parts[i] = "..." + p.Name
		case p.Default != nil:
			parts[i] = fmt.Sprintf("%s=%s", p.Name, p.Default)
		default:
			parts[i] = p.Name
		}
	}
	return fmt.Sprintf("<builtin %s(%s)>", b.Name, strings.Join(parts, ", "))
}
