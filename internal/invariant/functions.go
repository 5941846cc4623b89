package invariant

import "math/big"

// Fn is one entry in a function pool (spec.md §9): a named operation
// whose Eval may fail locally (division by zero, negative shift count,
// and similar), in which case only that function is dropped from the
// candidate set for the pair/triple under test — it never aborts
// inference for the other pool members.
type Fn struct {
	Name string
	Eval func(args ...*big.Int) (*big.Int, bool)
}

func unary(name string, f func(x *big.Int) (*big.Int, bool)) Fn {
	return Fn{Name: name, Eval: func(args ...*big.Int) (*big.Int, bool) {
		if len(args) != 1 {
			return nil, false
		}
		return f(args[0])
	}}
}

func binary(name string, f func(x, y *big.Int) (*big.Int, bool)) Fn {
	return Fn{Name: name, Eval: func(args ...*big.Int) (*big.Int, bool) {
		if len(args) != 2 {
			return nil, false
		}
		return f(args[0], args[1])
	}}
}

// UnaryPool is the fixed pool of unary functions for pair-of-scalars
// function-fit (spec.md §9): absolute value, negation, bitwise
// complement.
var UnaryPool = []Fn{
	unary("abs", func(x *big.Int) (*big.Int, bool) {
		return new(big.Int).Abs(x), true
	}),
	unary("neg", func(x *big.Int) (*big.Int, bool) {
		return new(big.Int).Neg(x), true
	}),
	unary("~", func(x *big.Int) (*big.Int, bool) {
		return new(big.Int).Not(x), true
	}),
}

// BinarySymmetricPool is the fixed pool of commutative binary functions,
// used for triple-of-scalars argument orderings where symmetry lets one
// evaluation stand in for both (spec.md §9): min, max, multiplication,
// bitwise and, bitwise or, gcd.
var BinarySymmetricPool = []Fn{
	binary("min", func(x, y *big.Int) (*big.Int, bool) {
		if x.Cmp(y) <= 0 {
			return new(big.Int).Set(x), true
		}
		return new(big.Int).Set(y), true
	}),
	binary("max", func(x, y *big.Int) (*big.Int, bool) {
		if x.Cmp(y) >= 0 {
			return new(big.Int).Set(x), true
		}
		return new(big.Int).Set(y), true
	}),
	binary("*", func(x, y *big.Int) (*big.Int, bool) {
		return new(big.Int).Mul(x, y), true
	}),
	binary("&", func(x, y *big.Int) (*big.Int, bool) {
		return new(big.Int).And(x, y), true
	}),
	binary("|", func(x, y *big.Int) (*big.Int, bool) {
		return new(big.Int).Or(x, y), true
	}),
	binary("gcd", func(x, y *big.Int) (*big.Int, bool) {
		ax, ay := new(big.Int).Abs(x), new(big.Int).Abs(y)
		if ax.Sign() == 0 && ay.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).GCD(nil, nil, ax, ay), true
	}),
}

// BinaryAsymmetricPool is the fixed pool of non-commutative binary
// functions, evaluated once per argument ordering (spec.md §9): compare,
// power, round (round(x, y): x rounded to a multiple of y), integer
// division, modulo, left shift, right shift.
var BinaryAsymmetricPool = []Fn{
	binary("cmp", func(x, y *big.Int) (*big.Int, bool) {
		return big.NewInt(int64(x.Cmp(y))), true
	}),
	binary("**", func(x, y *big.Int) (*big.Int, bool) {
		if y.Sign() < 0 || !y.IsInt64() || y.Int64() > 1024 {
			return nil, false
		}
		return new(big.Int).Exp(x, y, nil), true
	}),
	binary("round", func(x, y *big.Int) (*big.Int, bool) {
		if y.Sign() == 0 {
			return nil, false
		}
		q, r := new(big.Int), new(big.Int)
		q.QuoRem(x, y, r)
		half := new(big.Int).Abs(y)
		half.Rsh(half, 1)
		if new(big.Int).Abs(r).Cmp(half) > 0 {
			if x.Sign()*y.Sign() >= 0 {
				q.Add(q, big.NewInt(1))
			} else {
				q.Sub(q, big.NewInt(1))
			}
		}
		return q.Mul(q, y), true
	}),
	binary("/", func(x, y *big.Int) (*big.Int, bool) {
		if y.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).Quo(x, y), true
	}),
	binary("%", func(x, y *big.Int) (*big.Int, bool) {
		if y.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).Rem(x, y), true
	}),
	binary("<<", func(x, y *big.Int) (*big.Int, bool) {
		if y.Sign() < 0 || !y.IsInt64() || y.Int64() > 1024 {
			return nil, false
		}
		return new(big.Int).Lsh(x, uint(y.Int64())), true
	}),
	binary(">>", func(x, y *big.Int) (*big.Int, bool) {
		if y.Sign() < 0 || !y.IsInt64() || y.Int64() > 1024 {
			return nil, false
		}
		return new(big.Int).Rsh(x, uint(y.Int64())), true
	}),
}
