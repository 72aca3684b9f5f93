package interp

import (
	"cmp"
	"math"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// unaryOp applies op to the payload of v. Vectors are negated
// elementwise.
func unaryOp(op parser.UnaryOp, v value.Value) (value.Value, error) {
	r, err := value.Resolve(v)
	if err != nil {
		return nil, err
	}
	if vec, ok := r.(*value.Vector); ok {
		out := make([]value.Value, 0, vec.Len())
		for _, el := range vec.Elements() {
			x, err := unaryOp(op, el)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
		return value.NewVector(out...), nil
	}

	switch op {
	case parser.OpNeg:
		switch n := r.(type) {
		case value.Natural:
			return value.Integer(-n), nil
		case value.Integer:
			return -n, nil
		case value.Real:
			return -n, nil
		}
	case parser.OpPos:
		if value.IsNumeric(r) {
			return r, nil
		}
	case parser.OpNot:
		b, err := value.ToBool(r)
		if err != nil {
			return nil, err
		}
		return value.Bool(!b), nil
	}
	return nil, value.TypeMismatchf("cannot apply %s to %s", op, r.Type())
}

// binaryOp applies op to the payloads of left and right.
func binaryOp(op parser.BinaryOp, left, right value.Value) (value.Value, error) {
	l, err := value.Resolve(left)
	if err != nil {
		return nil, err
	}
	r, err := value.Resolve(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case parser.OpRange:
		return rangeOp(l, r)
	case parser.OpAndAnd, parser.OpOrOr:
		return logicalOp(op, l, r)
	}

	lv, lok := l.(*value.Vector)
	rv, rok := r.(*value.Vector)
	if lok || rok {
		return elementwise(op, l, lv, r, rv)
	}
	return scalarOp(op, l, r)
}

// elementwise applies op pairwise. A scalar operand is paired with every
// element of the vector operand.
func elementwise(op parser.BinaryOp, l value.Value, lv *value.Vector, r value.Value, rv *value.Vector) (value.Value, error) {
	var n int
	switch {
	case lv != nil && rv != nil:
		if lv.Len() != rv.Len() {
			return nil, value.TypeMismatchf("vector lengths differ: %d and %d", lv.Len(), rv.Len())
		}
		n = lv.Len()
	case lv != nil:
		n = lv.Len()
	default:
		n = rv.Len()
	}

	out := make([]value.Value, n)
	for i := 1; i <= n; i++ {
		a, b := l, r
		if lv != nil {
			a, _ = lv.Element(i)
		}
		if rv != nil {
			b, _ = rv.Element(i)
		}
		x, err := binaryOp(op, a, b)
		if err != nil {
			return nil, err
		}
		out[i-1] = x
	}
	return value.NewVector(out...), nil
}

// MaxRangeLength is the longest sequence a range expression may build.
const MaxRangeLength = 1 << 24

// rangeOp builds the integer sequence from l to r, counting down when r is
// smaller.
func rangeOp(l, r value.Value) (value.Value, error) {
	from, ok1 := value.ToInt(l)
	to, ok2 := value.ToInt(r)
	if !ok1 || !ok2 {
		return nil, value.TypeMismatchf("range needs integers, got %s and %s", l.Type(), r.Type())
	}
	step := int64(1)
	// Unsigned subtraction gives the exact distance even when to-from
	// overflows int64.
	distance := uint64(to) - uint64(from)
	if to < from {
		step = -1
		distance = uint64(from) - uint64(to)
	}
	if distance >= MaxRangeLength {
		return nil, value.IndexOutOfRangef("range %d:%d is longer than %d elements", from, to, MaxRangeLength)
	}
	out := make([]value.Value, 0, int(distance)+1)
	for i := from; ; i += step {
		out = append(out, value.MakeInteger(i))
		if i == to {
			break
		}
	}
	return value.NewVector(out...), nil
}

// logicalOp evaluates && and || on operands already evaluated.
func logicalOp(op parser.BinaryOp, l, r value.Value) (value.Value, error) {
	a, err := value.ToBool(l)
	if err != nil {
		return nil, err
	}
	b, err := value.ToBool(r)
	if err != nil {
		return nil, err
	}
	if op == parser.OpAndAnd || op == parser.OpAnd {
		return value.Bool(a && b), nil
	}
	return value.Bool(a || b), nil
}

func scalarOp(op parser.BinaryOp, l, r value.Value) (value.Value, error) {
	switch op {
	case parser.OpAdd, parser.OpSub, parser.OpMul, parser.OpDiv, parser.OpPow:
		return arithmetic(op, l, r)
	case parser.OpEq:
		return value.Bool(equal(l, r)), nil
	case parser.OpNe:
		return value.Bool(!equal(l, r)), nil
	case parser.OpLt, parser.OpLe, parser.OpGt, parser.OpGe:
		return compare(op, l, r)
	case parser.OpAnd, parser.OpOr:
		return logicalOp(op, l, r)
	}
	return nil, value.TypeMismatchf("unsupported operator %s", op)
}

func arithmetic(op parser.BinaryOp, l, r value.Value) (value.Value, error) {
	if op == parser.OpAdd {
		ls, lok := l.(value.String)
		rs, rok := r.(value.String)
		switch {
		case lok && rok:
			return ls + rs, nil
		case lok && value.IsNumeric(r):
			return ls + value.String(r.String()), nil
		case rok && value.IsNumeric(l):
			return value.String(l.String()) + rs, nil
		}
	}

	widest := value.Widest(l, r)
	if widest == "" {
		return nil, value.TypeMismatchf("cannot apply %s to %s and %s", op, l.Type(), r.Type())
	}
	a, _ := value.ToFloat(l)
	b, _ := value.ToFloat(r)

	switch op {
	case parser.OpDiv:
		return value.Real(a / b), nil
	case parser.OpPow:
		return value.Real(math.Pow(a, b)), nil
	}

	if widest == value.TypeReal {
		switch op {
		case parser.OpAdd:
			return value.Real(a + b), nil
		case parser.OpSub:
			return value.Real(a - b), nil
		default:
			return value.Real(a * b), nil
		}
	}

	x, _ := value.ToInt(l)
	y, _ := value.ToInt(r)
	var n int64
	switch op {
	case parser.OpAdd:
		n = x + y
	case parser.OpSub:
		return value.Integer(x - y), nil
	default:
		n = x * y
	}
	if widest == value.TypeNatural {
		return value.Natural(n), nil
	}
	return value.Integer(n), nil
}

// equal compares numbers by value across numeric types. Values of
// unrelated types are never equal.
func equal(l, r value.Value) bool {
	if a, ok := value.ToFloat(l); ok {
		b, ok := value.ToFloat(r)
		return ok && a == b
	}
	switch a := l.(type) {
	case value.String:
		b, ok := r.(value.String)
		return ok && a == b
	case value.Bool:
		b, ok := r.(value.Bool)
		return ok && a == b
	}
	if value.IsNull(l) {
		return value.IsNull(r)
	}
	return l == r
}

func compare(op parser.BinaryOp, l, r value.Value) (value.Value, error) {
	var c int
	a, aok := value.ToFloat(l)
	b, bok := value.ToFloat(r)
	ls, lsok := l.(value.String)
	rs, rsok := r.(value.String)
	switch {
	case aok && bok:
		c = cmp.Compare(a, b)
	case lsok && rsok:
		c = cmp.Compare(ls, rs)
	default:
		return nil, value.TypeMismatchf("cannot compare %s and %s", l.Type(), r.Type())
	}

	switch op {
	case parser.OpLt:
		return value.Bool(c < 0), nil
	case parser.OpLe:
		return value.Bool(c <= 0), nil
	case parser.OpGt:
		return value.Bool(c > 0), nil
	}
	return value.Bool(c >= 0), nil
}
