// Package model provides the probabilistic objects the interpreter hands
// to stochastic assignment: distributions and the random-variable nodes
// they create.
package model

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/tilde/value"
)

var log = commonlog.GetLogger("tilde.model")

// ErrInvalidParameter reports a distribution parameter outside its domain.
var ErrInvalidParameter = errors.New("invalid parameter")

// Library owns the random source shared by every distribution it creates.
// It is not safe for concurrent use.
type Library struct {
	rng  *rand.Rand
	seed uint64
}

// NewLibrary returns a library drawing from a PCG generator seeded with
// seed. Equal seeds give equal draws.
func NewLibrary(seed uint64) *Library {
	return &Library{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the library was created with.
func (l *Library) Seed() uint64 { return l.seed }

// Builtins returns the distribution constructors.
func (l *Library) Builtins() []*value.Builtin {
	return []*value.Builtin{
		{
			Name:   "dnorm",
			Params: []value.Param{{Name: "mean", Default: value.Real(0)}, {Name: "sd", Default: value.Real(1)}},
			Fn: func(args []value.Value) (value.Value, error) {
				return l.Normal(args[0], args[1])
			},
		},
		{
			Name:   "dunif",
			Params: []value.Param{{Name: "min", Default: value.Real(0)}, {Name: "max", Default: value.Real(1)}},
			Fn: func(args []value.Value) (value.Value, error) {
				return l.Uniform(args[0], args[1])
			},
		},
		{
			Name:   "dexp",
			Params: []value.Param{{Name: "rate", Default: value.Real(1)}},
			Fn: func(args []value.Value) (value.Value, error) {
				return l.Exponential(args[0])
			},
		},
		{
			Name:   "dbern",
			Params: []value.Param{{Name: "p"}},
			Fn: func(args []value.Value) (value.Value, error) {
				return l.Bernoulli(args[0])
			},
		},
	}
}

var helpTopics = map[string]string{
	"dnorm": "dnorm(mean=0, sd=1)\n  Normal distribution. Use with ~, e.g. x ~ dnorm(0, 1).",
	"dunif": "dunif(min=0, max=1)\n  Uniform distribution on [min, max].",
	"dexp":  "dexp(rate=1)\n  Exponential distribution with the given rate.",
	"dbern": "dbern(p)\n  Bernoulli distribution; draws are 0 or 1.",
	"clamp": "x.clamp(value)\n  Fixes a random variable to an observed value.",
}

// Help returns help text for a distribution or node method.
func (l *Library) Help(topic string) (string, bool) {
	if topic == "" {
		names := make([]string, 0, len(helpTopics))
		for name := range helpTopics {
			names = append(names, name)
		}
		sort.Strings(names)
		return "Help topics: " + strings.Join(names, ", "), true
	}
	text, ok := helpTopics[topic]
	return text, ok
}

// number returns the numeric payload of a distribution parameter.
func number(name string, v value.Value) (float64, error) {
	r, err := value.Resolve(v)
	if err != nil {
		return 0, err
	}
	f, ok := value.ToFloat(r)
	if !ok {
		return 0, value.TypeMismatchf("parameter %s must be a number, got %s", name, r.Type())
	}
	return f, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
