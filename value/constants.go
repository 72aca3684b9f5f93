package value

import (
	"math"
	"strconv"
)

// Type names of the built-in constants.
const (
	TypeBool    = "Bool"
	TypeNatural = "Natural"
	TypeInteger = "Integer"
	TypeReal    = "Real"
	TypeString  = "String"
	TypeNull    = "Null"
	TypeObject  = "Object"
)

// Bool is a boolean constant.
type Bool bool

func (b Bool) Type() string { return TypeBool }

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b Bool) ToBool() (bool, error) { return bool(b), nil }

// Natural is a non-negative integer constant. Integer literals are
// Naturals.
type Natural int64

func (n Natural) Type() string          { return TypeNatural }
func (n Natural) String() string        { return strconv.FormatInt(int64(n), 10) }
func (n Natural) ToBool() (bool, error) { return n != 0, nil }

// Integer is a signed integer constant.
type Integer int64

func (n Integer) Type() string          { return TypeInteger }
func (n Integer) String() string        { return strconv.FormatInt(int64(n), 10) }
func (n Integer) ToBool() (bool, error) { return n != 0, nil }

// Real is a floating-point constant.
type Real float64

func (r Real) Type() string { return TypeReal }

func (r Real) String() string {
	f := float64(r)
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (r Real) ToBool() (bool, error) { return r != 0, nil }

// String is a string constant.
type String string

func (s String) Type() string   { return TypeString }
func (s String) String() string { return strconv.Quote(string(s)) }

type null struct{}

func (null) Type() string   { return TypeNull }
func (null) String() string { return "NULL" }

// Null is the null constant.
var Null Value = null{}

// IsNull reports whether v is the null constant.
func IsNull(v Value) bool {
	_, ok := v.(null)
	return ok
}

// ---------------------------------------------------------------------------
// Numeric helpers
// ---------------------------------------------------------------------------

// numeric ranks: a value widens to any higher rank.
const (
	rankNone = iota - 1
	rankNatural
	rankInteger
	rankReal
)

func rank(v Value) int {
	switch v.(type) {
	case Natural:
		return rankNatural
	case Integer:
		return rankInteger
	case Real:
		return rankReal
	}
	return rankNone
}

// IsNumeric reports whether v is a Natural, Integer or Real.
func IsNumeric(v Value) bool {
	return rank(v) != rankNone
}

// ToFloat returns the numeric value of v as a float64.
func ToFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Natural:
		return float64(n), true
	case Integer:
		return float64(n), true
	case Real:
		return float64(n), true
	}
	return 0, false
}

// ToInt returns v as an int64 when it holds an integral number.
func ToInt(v Value) (int64, bool) {
	switch n := v.(type) {
	case Natural:
		return int64(n), true
	case Integer:
		return int64(n), true
	case Real:
		f := float64(n)
		if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<62 {
			return int64(f), true
		}
	}
	return 0, false
}

// MakeInteger returns n as a Natural when it is non-negative, otherwise as
// an Integer.
func MakeInteger(n int64) Value {
	if n >= 0 {
		return Natural(n)
	}
	return Integer(n)
}

// Widest returns the type name of the widest numeric rank among vs, or ""
// when any of them is not numeric.
func Widest(vs ...Value) string {
	best := rankNatural
	for _, v := range vs {
		r := rank(v)
		if r == rankNone {
			return ""
		}
		if r > best {
			best = r
		}
	}
	switch best {
	case rankInteger:
		return TypeInteger
	case rankReal:
		return TypeReal
	}
	return TypeNatural
}
