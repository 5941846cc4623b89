package invariant

import (
	"fmt"
	"math/big"
	"strings"

	"dinv/internal/model"
)

// Linear3 is a fit of one variable as an affine combination of the
// other two (spec.md §4.4): target = a*arg1 + b*arg2 + c.
type Linear3 struct {
	A, B, C *big.Int
}

// BinaryFit records that target = f(arg1, arg2) held for every sample,
// for one of the six argument orderings spec.md §4.4 names.
type BinaryFit struct {
	Fn string
}

// ThreeScalar is the ternary invariant over three scalar variables x, y,
// z (Values[0], [1], [2]), gated off by engine.Options.NoTernaryInvariants
// by default (spec.md §6).
type ThreeScalar struct {
	Base

	// LinearZ: z = a*x + b*y + c. LinearY: y = a*x + b*z + c.
	// LinearX: x = a*y + b*z + c.
	LinearZ, LinearY, LinearX *Linear3

	// FnXY: z = f(x, y). FnYX: z = f(y, x). FnXZ: y = f(x, z).
	// FnZX: y = f(z, x). FnYZ: x = f(y, z). FnZY: x = f(z, y).
	// The commutative subpool (BinarySymmetricPool) is only evaluated
	// once per target, under FnXY/FnXZ/FnYZ, since f(a,b) == f(b,a)
	// makes the swapped ordering redundant for those functions.
	FnXY, FnYX []BinaryFit
	FnXZ, FnZX []BinaryFit
	FnYZ, FnZY []BinaryFit
}

func (t *ThreeScalar) Meta() *Base { return &t.Base }

func (t *ThreeScalar) IsUnconstrained() bool {
	return t.LinearZ == nil && t.LinearY == nil && t.LinearX == nil &&
		len(t.FnXY) == 0 && len(t.FnYX) == 0 && len(t.FnXZ) == 0 &&
		len(t.FnZX) == 0 && len(t.FnYZ) == 0 && len(t.FnZY) == 0
}

func (t *ThreeScalar) Format(names func(i int) string) string {
	xn, yn, zn := "x", "y", "z"
	if names != nil {
		xn, yn, zn = names(0), names(1), names(2)
	}
	var parts []string
	if t.LinearZ != nil {
		parts = append(parts, fmt.Sprintf("%s = %s*%s + %s*%s + %s", zn, t.LinearZ.A, xn, t.LinearZ.B, yn, t.LinearZ.C))
	}
	if t.LinearY != nil {
		parts = append(parts, fmt.Sprintf("%s = %s*%s + %s*%s + %s", yn, t.LinearY.A, xn, t.LinearY.B, zn, t.LinearY.C))
	}
	if t.LinearX != nil {
		parts = append(parts, fmt.Sprintf("%s = %s*%s + %s*%s + %s", xn, t.LinearX.A, yn, t.LinearX.B, zn, t.LinearX.C))
	}
	emit := func(target string, args string, fits []BinaryFit) {
		for _, f := range fits {
			parts = append(parts, fmt.Sprintf("%s = %s(%s)", target, f.Fn, args))
		}
	}
	emit(zn, xn+", "+yn, t.FnXY)
	emit(zn, yn+", "+xn, t.FnYX)
	emit(yn, xn+", "+zn, t.FnXZ)
	emit(yn, zn+", "+xn, t.FnZX)
	emit(xn, yn+", "+zn, t.FnYZ)
	emit(xn, zn+", "+yn, t.FnZY)
	return strings.Join(parts, " and ")
}

// BuildThreeScalar implements spec.md §4.4's triple-of-scalars rules.
// Guard preconditions (no endpoint exact, no pair already exactly
// related) are the engine's responsibility (spec.md §4.3); rows must
// already exclude any sample with a missing endpoint.
func BuildThreeScalar(vx, vy, vz *model.VarInfo, rows []Row, opts Options) *ThreeScalar {
	samples, distinct := samplesAndDistinct(rows)
	t := &ThreeScalar{Base: NewBase(samples, distinct, false, tripleValues(rows), opts.OneOfThreshold)}

	// Heuristic gate (spec.md §9 open question (c)): below five distinct
	// samples ternary fits are not attempted, since "first three
	// samples" linear-fit seeding is unreliable with so little data.
	if distinct <= 4 {
		t.Unconstrained = true
		return t
	}

	t.LinearZ = fitLinear3(rows, 2, 0, 1)
	t.LinearY = fitLinear3(rows, 1, 0, 2)
	t.LinearX = fitLinear3(rows, 0, 1, 2)

	t.FnXY = fitBinary(rows, 2, 0, 1, allPools())
	t.FnYX = fitBinary(rows, 2, 1, 0, BinaryAsymmetricPool)
	t.FnXZ = fitBinary(rows, 1, 0, 2, allPools())
	t.FnZX = fitBinary(rows, 1, 2, 0, BinaryAsymmetricPool)
	t.FnYZ = fitBinary(rows, 0, 1, 2, allPools())
	t.FnZY = fitBinary(rows, 0, 2, 1, BinaryAsymmetricPool)

	return t
}

func allPools() []Fn {
	out := make([]Fn, 0, len(BinarySymmetricPool)+len(BinaryAsymmetricPool))
	out = append(out, BinarySymmetricPool...)
	out = append(out, BinaryAsymmetricPool...)
	return out
}

func tripleValues(rows []Row) []model.Value {
	out := make([]model.Value, len(rows))
	for i, r := range rows {
		out[i] = model.Sequence(r.Values)
	}
	return out
}

// fitLinear3 fits target = a*arg1 + b*arg2 + c using the first three
// samples (spec.md §4.4), rejecting if any sample violates.
func fitLinear3(rows []Row, target, arg1, arg2 int) *Linear3 {
	if len(rows) < 3 {
		return nil
	}
	// Solve the 3x3 linear system from the first three samples:
	// t_k = a*x_k + b*y_k + c, k=0,1,2.
	x0, y0, t0 := rows[0].Values[arg1].Int, rows[0].Values[arg2].Int, rows[0].Values[target].Int
	x1, y1, t1 := rows[1].Values[arg1].Int, rows[1].Values[arg2].Int, rows[1].Values[target].Int
	x2, y2, t2 := rows[2].Values[arg1].Int, rows[2].Values[arg2].Int, rows[2].Values[target].Int

	dx1, dy1, dt1 := sub(x1, x0), sub(y1, y0), sub(t1, t0)
	dx2, dy2, dt2 := sub(x2, x0), sub(y2, y0), sub(t2, t0)

	// Solve [dx1 dy1; dx2 dy2] [a;b] = [dt1;dt2] via Cramer's rule.
	det := sub(mul(dx1, dy2), mul(dx2, dy1))
	if det.Sign() == 0 {
		return nil
	}
	aNum := sub(mul(dt1, dy2), mul(dt2, dy1))
	bNum := sub(mul(dx1, dt2), mul(dx2, dt1))
	a, aRem := new(big.Int).QuoRem(aNum, det, new(big.Int))
	b, bRem := new(big.Int).QuoRem(bNum, det, new(big.Int))
	if aRem.Sign() != 0 || bRem.Sign() != 0 {
		return nil
	}
	c := sub(t0, add(mul(a, x0), mul(b, y0)))

	for _, r := range rows {
		want := r.Values[target].Int
		got := add(add(mul(a, r.Values[arg1].Int), mul(b, r.Values[arg2].Int)), c)
		if want.Cmp(got) != 0 {
			return nil
		}
	}
	return &Linear3{A: a, B: b, C: c}
}

func fitBinary(rows []Row, target, arg1, arg2 int, pool []Fn) []BinaryFit {
	var out []BinaryFit
	for _, fn := range pool {
		ok := true
		for _, r := range rows {
			got, evalOK := fn.Eval(r.Values[arg1].Int, r.Values[arg2].Int)
			if !evalOK || got.Cmp(r.Values[target].Int) != 0 {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, BinaryFit{Fn: fn.Name})
		}
	}
	return out
}

func sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
func add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func mul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }
