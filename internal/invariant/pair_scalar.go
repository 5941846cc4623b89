package invariant

import (
	"fmt"
	"math/big"
	"strings"

	"dinv/internal/model"
)

// Linear is a y = a*x + b fit (spec.md §4.4).
type Linear struct {
	A, B *big.Int
}

// TwoScalar is the pairwise invariant for two scalar variables x (first
// argument) and y (second argument), per spec.md §3.
type TwoScalar struct {
	Base

	Linear            *Linear
	Comparison        string // "=", "<", "<=", ">", ">=", "!=", or "" (none)
	CanBeEqual        bool
	Functions         []string // f such that y = f(x) for every sample
	InvFunctions      []string // f such that x = f(y) for every sample
	ComparisonObvious bool

	DiffSNI *SingleScalar // embedded SingleScalar over {x - y}
	SumSNI  *SingleScalar // embedded SingleScalar over {x + y}
}

func (t *TwoScalar) Meta() *Base { return &t.Base }

func (t *TwoScalar) IsUnconstrained() bool {
	return t.Linear == nil && t.Comparison == "" && len(t.Functions) == 0 && len(t.InvFunctions) == 0
}

func (t *TwoScalar) Format(names func(i int) string) string {
	var xn, yn string
	if names != nil {
		xn, yn = names(0), names(1)
	} else {
		xn, yn = "x", "y"
	}
	var parts []string
	if t.Linear != nil {
		parts = append(parts, fmt.Sprintf("%s = %s*%s + %s", yn, t.Linear.A.String(), xn, t.Linear.B.String()))
	}
	if t.Comparison != "" && !t.ComparisonObvious {
		parts = append(parts, fmt.Sprintf("%s %s %s", xn, t.Comparison, yn))
	}
	for _, f := range t.Functions {
		parts = append(parts, fmt.Sprintf("%s = %s(%s)", yn, f, xn))
	}
	for _, f := range t.InvFunctions {
		parts = append(parts, fmt.Sprintf("%s = %s(%s)", xn, f, yn))
	}
	if len(parts) == 0 && t.OneOf != nil {
		vals := make([]string, len(t.OneOf))
		for i, v := range t.OneOf {
			vals[i] = v.String()
		}
		return "one of {" + strings.Join(vals, ", ") + "}"
	}
	return strings.Join(parts, " and ")
}

// BuildTwoScalar constructs the pairwise invariant between scalar x
// (Values[0]) and scalar y (Values[1]) over rows already filtered to
// exclude any sample where either endpoint is missing (the engine's
// "skip pairs where either endpoint can-be-missing" guard, spec.md
// §4.3). A single-sample program point (spec.md §12 supplemented
// behavior) still reports a linear fit/comparison since one sample
// cannot refute either.
func BuildTwoScalar(vi, vj *model.VarInfo, rows []Row, opts Options) *TwoScalar {
	samples, distinct := samplesAndDistinct(rows)
	t := &TwoScalar{Base: NewBase(samples, distinct, false, pairValues(rows), opts.OneOfThreshold)}
	t.ComparisonObvious = isComparisonObvious(vi.Name, vj.Name)

	if len(rows) == 0 {
		t.Unconstrained = true
		return t
	}

	t.Linear = fitLinear(rows)
	t.Comparison, t.CanBeEqual = fitComparison(rows, opts.NegativeConfidence)
	t.Functions = fitFunctions(rows, false)
	t.InvFunctions = fitFunctions(rows, true)

	var diffRows, sumRows []Row
	for _, r := range rows {
		x, y := r.Values[0].Int, r.Values[1].Int
		diffRows = append(diffRows, Row{Values: []model.Value{model.BigInt(new(big.Int).Sub(x, y))}, Count: r.Count})
		sumRows = append(sumRows, Row{Values: []model.Value{model.BigInt(new(big.Int).Add(x, y))}, Count: r.Count})
	}
	diffRows = mergeRows(diffRows)
	sumRows = mergeRows(sumRows)
	diffVar := &model.VarInfo{Name: fmt.Sprintf("%s-%s", vi.Name, vj.Name)}
	sumVar := &model.VarInfo{Name: fmt.Sprintf("%s+%s", vi.Name, vj.Name)}
	t.DiffSNI = BuildSingleScalar(diffVar, diffRows, opts)
	t.SumSNI = BuildSingleScalar(sumVar, sumRows, opts)

	return t
}

func pairValues(rows []Row) []model.Value {
	out := make([]model.Value, len(rows))
	for i, r := range rows {
		out[i] = model.Sequence(r.Values)
	}
	return out
}

// fitLinear implements spec.md §4.4: pick any two distinct samples with
// x0 != x1, solve for (a, b), convert to integers if exact, then check
// every sample.
func fitLinear(rows []Row) *Linear {
	if len(rows) < 2 {
		if len(rows) == 1 {
			// A single sample trivially satisfies a=1,b=y-x.
			x, y := rows[0].Values[0].Int, rows[0].Values[1].Int
			return &Linear{A: big.NewInt(1), B: new(big.Int).Sub(y, x)}
		}
		return nil
	}
	var x0, y0, x1, y1 *big.Int
	found := false
	for i := 0; i < len(rows) && !found; i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[i].Values[0].Int.Cmp(rows[j].Values[0].Int) != 0 {
				x0, y0 = rows[i].Values[0].Int, rows[i].Values[1].Int
				x1, y1 = rows[j].Values[0].Int, rows[j].Values[1].Int
				found = true
				break
			}
		}
	}
	if !found {
		return nil // x is constant across samples; no linear y=ax+b is meaningful here
	}
	dx := new(big.Int).Sub(x1, x0)
	dy := new(big.Int).Sub(y1, y0)
	// a = dy/dx, b = (y0*x1 - x0*y1)/dx
	aNum := new(big.Int).Set(dy)
	bNum := new(big.Int).Sub(new(big.Int).Mul(y0, x1), new(big.Int).Mul(x0, y1))
	a, aRem := new(big.Int).QuoRem(aNum, dx, new(big.Int))
	b, bRem := new(big.Int).QuoRem(bNum, dx, new(big.Int))
	if aRem.Sign() != 0 || bRem.Sign() != 0 {
		return nil
	}
	for _, r := range rows {
		lhs := r.Values[1].Int
		rhs := new(big.Int).Add(new(big.Int).Mul(a, r.Values[0].Int), b)
		if lhs.Cmp(rhs) != 0 {
			return nil
		}
	}
	return &Linear{A: a, B: b}
}

// fitComparison implements spec.md §4.4's "single pass over all samples
// eliminates impossible relations" rule. A "!=" conclusion additionally
// requires the overlap-based justification test: (1 -
// overlap/(range1*range2))^samples < alpha.
func fitComparison(rows []Row, alpha float64) (string, bool) {
	canLt, canLe, canGt, canGe, canEq, canNe := true, true, true, true, true, true
	samples := 0
	for _, r := range rows {
		c := r.Values[0].Int.Cmp(r.Values[1].Int)
		if c >= 0 {
			canLt = false
		}
		if c > 0 {
			canLe = false
		}
		if c <= 0 {
			canGt = false
		}
		if c < 0 {
			canGe = false
		}
		if c != 0 {
			canEq = false
		}
		if c == 0 {
			canNe = false
		}
		samples += r.Count
	}
	canBeEqual := false
	for _, r := range rows {
		if r.Values[0].Int.Cmp(r.Values[1].Int) == 0 {
			canBeEqual = true
			break
		}
	}
	switch {
	case canEq:
		return "=", true
	case canLt:
		return "<", canBeEqual
	case canLe:
		return "<=", canBeEqual
	case canGt:
		return ">", canBeEqual
	case canGe:
		return ">=", canBeEqual
	case canNe && justified(overlapProbability(rows), samples, alpha):
		return "!=", false
	default:
		return "", canBeEqual
	}
}

// overlapProbability estimates the a-priori chance that x and y collide
// by computing the overlap of their observed ranges against the product
// of the two range sizes (spec.md §4.4).
func overlapProbability(rows []Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	xMin, xMax := rows[0].Values[0].Int, rows[0].Values[0].Int
	yMin, yMax := rows[0].Values[1].Int, rows[0].Values[1].Int
	for _, r := range rows {
		x, y := r.Values[0].Int, r.Values[1].Int
		if x.Cmp(xMin) < 0 {
			xMin = x
		}
		if x.Cmp(xMax) > 0 {
			xMax = x
		}
		if y.Cmp(yMin) < 0 {
			yMin = y
		}
		if y.Cmp(yMax) > 0 {
			yMax = y
		}
	}
	xRange := rangeSize(xMin, xMax)
	yRange := rangeSize(yMin, yMax)
	if xRange <= 0 || yRange <= 0 {
		return 0
	}
	loMin := xMin
	if yMin.Cmp(loMin) > 0 {
		loMin = yMin
	}
	hiMax := xMax
	if yMax.Cmp(hiMax) < 0 {
		hiMax = yMax
	}
	overlap := rangeSize(loMin, hiMax)
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / (float64(xRange) * float64(yRange))
}

// rangeSize returns hi-lo+1, or 0 if lo > hi, capped to avoid overflow
// on pathologically wide big.Int ranges.
func rangeSize(lo, hi *big.Int) int64 {
	diff := new(big.Int).Sub(hi, lo)
	if diff.Sign() < 0 {
		return 0
	}
	if !diff.IsInt64() {
		return 1 << 32
	}
	return diff.Int64() + 1
}

func fitFunctions(rows []Row, inverse bool) []string {
	var names []string
	for _, fn := range UnaryPool {
		ok := true
		for _, r := range rows {
			var arg, want *big.Int
			if inverse {
				arg, want = r.Values[1].Int, r.Values[0].Int
			} else {
				arg, want = r.Values[0].Int, r.Values[1].Int
			}
			got, evalOK := fn.Eval(arg)
			if !evalOK || got.Cmp(want) != 0 {
				ok = false
				break
			}
		}
		if ok {
			names = append(names, fn.Name)
		}
	}
	return names
}

// isComparisonObvious detects when the structural relationship between
// two variable names already implies an ordering (e.g. min(A) vs
// max(A)), so the comparison is suppressed from the report (spec.md §3,
// SPEC_FULL.md §12).
func isComparisonObvious(a, b string) bool {
	strip := func(s, prefix string) (string, bool) {
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
			return s[len(prefix) : len(s)-1], true
		}
		return "", false
	}
	if inner, ok := strip(a, "min("); ok {
		if inner2, ok2 := strip(b, "max("); ok2 && inner == inner2 {
			return true
		}
	}
	if inner, ok := strip(b, "min("); ok {
		if inner2, ok2 := strip(a, "max("); ok2 && inner == inner2 {
			return true
		}
	}
	return false
}
