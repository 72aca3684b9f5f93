package model

import (
	"github.com/chazu/tilde/value"
)

// Stochastic is a random-variable node. Its value is a draw from its
// distribution until it is clamped to an observation.
type Stochastic struct {
	name    string
	dist    density
	val     value.Value
	clamped bool
}

// Distribution returns the distribution the node was drawn from.
func (s *Stochastic) Distribution() value.Distribution { return s.dist }

// IsClamped reports whether the node holds an observed value.
func (s *Stochastic) IsClamped() bool { return s.clamped }

func (s *Stochastic) Name() string        { return s.name }
func (s *Stochastic) SetName(name string) { s.name = name }

func (s *Stochastic) Type() string   { return s.val.Type() }
func (s *Stochastic) String() string { return s.val.String() }

// Current implements value.Node.
func (s *Stochastic) Current() (value.Value, error) { return s.val, nil }

// SetCurrent implements value.Settable. The new value must be a number.
func (s *Stochastic) SetCurrent(v value.Value) error {
	r, err := value.Resolve(v)
	if err != nil {
		return err
	}
	if !value.IsNumeric(r) {
		return value.TypeMismatchf("cannot set %s to %s", s.label(), r.Type())
	}
	s.val = r
	return nil
}

// Clamp fixes the node to an observed value.
func (s *Stochastic) Clamp(v value.Value) error {
	if err := s.SetCurrent(v); err != nil {
		return err
	}
	s.clamped = true
	log.Debugf("clamped %s to %s", s.label(), s.val)
	return nil
}

// Redraw replaces the value with a fresh draw unless the node is clamped.
func (s *Stochastic) Redraw() error {
	if s.clamped {
		return nil
	}
	x, err := s.dist.draw()
	if err != nil {
		return err
	}
	s.val = x
	return nil
}

// LnProbability returns the log density of the current value.
func (s *Stochastic) LnProbability() (float64, error) {
	return s.dist.lnProbability(s.val)
}

func (s *Stochastic) label() string {
	if s.name == "" {
		return "random variable"
	}
	return s.name
}

// Method implements value.MethodHolder.
func (s *Stochastic) Method(name string) (value.Value, bool) {
	switch name {
	case "clamp":
		return &value.Builtin{
			Name:   "clamp",
			Params: []value.Param{{Name: "x"}},
			Fn: func(args []value.Value) (value.Value, error) {
				return nil, s.Clamp(args[0])
			},
		}, true
	case "redraw":
		return &value.Builtin{
			Name: "redraw",
			Fn: func([]value.Value) (value.Value, error) {
				return nil, s.Redraw()
			},
		}, true
	case "value":
		return &value.Builtin{
			Name: "value",
			Fn: func([]value.Value) (value.Value, error) {
				return s.val, nil
			},
		}, true
	case "isClamped":
		return &value.Builtin{
			Name: "isClamped",
			Fn: func([]value.Value) (value.Value, error) {
				return value.Bool(s.clamped), nil
			},
		}, true
	case "lnProbability":
		return &value.Builtin{
			Name: "lnProbability",
			Fn: func([]value.Value) (value.Value, error) {
				lp, err := s.LnProbability()
				if err != nil {
					return nil, err
				}
				return value.Real(lp), nil
			},
		}, true
	}
	return nil, false
}
