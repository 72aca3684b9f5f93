package model

import (
	"fmt"
	"math"

	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Distributions
// ---------------------------------------------------------------------------

// TypeDistribution prefixes the type names of distributions.
const TypeDistribution = "Distribution"

// density is implemented by every distribution in this package.
// Parameters are read when used, so a parameter bound to another node
// follows that node.
type density interface {
	value.Distribution
	draw() (value.Value, error)
	lnProbability(x value.Value) (float64, error)
}

// newRandomVariable draws an initial value from d and wraps it in a node.
func newRandomVariable(d density) (value.Value, error) {
	x, err := d.draw()
	if err != nil {
		return nil, err
	}
	return &Stochastic{dist: d, val: x}, nil
}

// Normal is the normal distribution.
type Normal struct {
	lib      *Library
	mean, sd value.Value
}

// Normal returns a normal distribution. Constant parameters are checked
// immediately; node parameters when drawn from.
func (l *Library) Normal(mean, sd value.Value) (*Normal, error) {
	d := &Normal{lib: l, mean: mean, sd: sd}
	if _, _, err := d.params(); err != nil && !isNode(mean, sd) {
		return nil, err
	}
	return d, nil
}

func (d *Normal) params() (mean, sd float64, err error) {
	if mean, err = number("mean", d.mean); err != nil {
		return
	}
	if sd, err = number("sd", d.sd); err != nil {
		return
	}
	if sd <= 0 {
		err = invalid("dnorm: sd must be positive, got %v", sd)
	}
	return
}

func (d *Normal) Type() string { return TypeDistribution + "<Real>" }
func (d *Normal) String() string {
	return fmt.Sprintf("dnorm(mean=%s, sd=%s)", show(d.mean), show(d.sd))
}

func (d *Normal) NewRandomVariable() (value.Value, error) { return newRandomVariable(d) }

func (d *Normal) draw() (value.Value, error) {
	mean, sd, err := d.params()
	if err != nil {
		return nil, err
	}
	return value.Real(mean + sd*d.lib.rng.NormFloat64()), nil
}

func (d *Normal) lnProbability(x value.Value) (float64, error) {
	mean, sd, err := d.params()
	if err != nil {
		return 0, err
	}
	v, err := number("x", x)
	if err != nil {
		return 0, err
	}
	z := (v - mean) / sd
	return -0.5*z*z - math.Log(sd) - 0.5*math.Log(2*math.Pi), nil
}

// Uniform is the continuous uniform distribution.
type Uniform struct {
	lib      *Library
	min, max value.Value
}

// Uniform returns a uniform distribution on [min, max].
func (l *Library) Uniform(min, max value.Value) (*Uniform, error) {
	d := &Uniform{lib: l, min: min, max: max}
	if _, _, err := d.params(); err != nil && !isNode(min, max) {
		return nil, err
	}
	return d, nil
}

func (d *Uniform) params() (lo, hi float64, err error) {
	if lo, err = number("min", d.min); err != nil {
		return
	}
	if hi, err = number("max", d.max); err != nil {
		return
	}
	if hi <= lo {
		err = invalid("dunif: max %v must exceed min %v", hi, lo)
	}
	return
}

func (d *Uniform) Type() string { return TypeDistribution + "<Real>" }
func (d *Uniform) String() string {
	return fmt.Sprintf("dunif(min=%s, max=%s)", show(d.min), show(d.max))
}

func (d *Uniform) NewRandomVariable() (value.Value, error) { return newRandomVariable(d) }

func (d *Uniform) draw() (value.Value, error) {
	lo, hi, err := d.params()
	if err != nil {
		return nil, err
	}
	return value.Real(lo + (hi-lo)*d.lib.rng.Float64()), nil
}

func (d *Uniform) lnProbability(x value.Value) (float64, error) {
	lo, hi, err := d.params()
	if err != nil {
		return 0, err
	}
	v, err := number("x", x)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return math.Inf(-1), nil
	}
	return -math.Log(hi - lo), nil
}

// Exponential is the exponential distribution.
type Exponential struct {
	lib  *Library
	rate value.Value
}

// Exponential returns an exponential distribution with the given rate.
func (l *Library) Exponential(rate value.Value) (*Exponential, error) {
	d := &Exponential{lib: l, rate: rate}
	if _, err := d.param(); err != nil && !isNode(rate) {
		return nil, err
	}
	return d, nil
}

func (d *Exponential) param() (float64, error) {
	rate, err := number("rate", d.rate)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, invalid("dexp: rate must be positive, got %v", rate)
	}
	return rate, nil
}

func (d *Exponential) Type() string   { return TypeDistribution + "<Real>" }
func (d *Exponential) String() string { return fmt.Sprintf("dexp(rate=%s)", show(d.rate)) }

func (d *Exponential) NewRandomVariable() (value.Value, error) { return newRandomVariable(d) }

func (d *Exponential) draw() (value.Value, error) {
	rate, err := d.param()
	if err != nil {
		return nil, err
	}
	return value.Real(d.lib.rng.ExpFloat64() / rate), nil
}

func (d *Exponential) lnProbability(x value.Value) (float64, error) {
	rate, err := d.param()
	if err != nil {
		return 0, err
	}
	v, err := number("x", x)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return math.Inf(-1), nil
	}
	return math.Log(rate) - rate*v, nil
}

// Bernoulli is the Bernoulli distribution on {0, 1}.
type Bernoulli struct {
	lib *Library
	p   value.Value
}

// Bernoulli returns a Bernoulli distribution with success probability p.
func (l *Library) Bernoulli(p value.Value) (*Bernoulli, error) {
	d := &Bernoulli{lib: l, p: p}
	if _, err := d.param(); err != nil && !isNode(p) {
		return nil, err
	}
	return d, nil
}

func (d *Bernoulli) param() (float64, error) {
	p, err := number("p", d.p)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 1 {
		return 0, invalid("dbern: p must lie in [0, 1], got %v", p)
	}
	return p, nil
}

func (d *Bernoulli) Type() string   { return TypeDistribution + "<Natural>" }
func (d *Bernoulli) String() string { return fmt.Sprintf("dbern(p=%s)", show(d.p)) }

func (d *Bernoulli) NewRandomVariable() (value.Value, error) { return newRandomVariable(d) }

func (d *Bernoulli) draw() (value.Value, error) {
	p, err := d.param()
	if err != nil {
		return nil, err
	}
	if d.lib.rng.Float64() < p {
		return value.Natural(1), nil
	}
	return value.Natural(0), nil
}

func (d *Bernoulli) lnProbability(x value.Value) (float64, error) {
	p, err := d.param()
	if err != nil {
		return 0, err
	}
	v, err := number("x", x)
	if err != nil {
		return 0, err
	}
	switch v {
	case 1:
		return math.Log(p), nil
	case 0:
		return math.Log(1 - p), nil
	}
	return math.Inf(-1), nil
}

func isNode(vs ...value.Value) bool {
	for _, v := range vs {
		if _, ok := v.(value.Node); ok {
			return true
		}
	}
	return false
}

func show(v value.Value) string {
	if n, ok := v.(value.Named); ok && n.Name() != "" {
		return n.Name()
	}
	return v.String()
}
