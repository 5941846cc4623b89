package invariant

import (
	"math/big"
	"strings"

	"dinv/internal/model"
)

// TwoSequence is the pairwise invariant between two sequence variables x
// (Values[0]) and y (Values[1]), per spec.md §3.
type TwoSequence struct {
	Base

	Linear     *Linear // pointwise y[i] = a*x[i] + b
	Comparison string  // lexicographic "=", "<", "<=", ">", ">=", or ""
	Reverse    bool
	SubSeq     bool // x is a (non-contiguous) subsequence of y
	SuperSeq   bool // x is a (non-contiguous) supersequence of y

	LinearObvious     bool
	ComparisonObvious bool
	SubSeqObvious     bool
	SuperSeqObvious   bool
}

func (t *TwoSequence) Meta() *Base { return &t.Base }

func (t *TwoSequence) IsUnconstrained() bool {
	return t.Linear == nil && t.Comparison == "" && !t.Reverse && !t.SubSeq && !t.SuperSeq
}

func (t *TwoSequence) Format(names func(i int) string) string {
	xn, yn := "x", "y"
	if names != nil {
		xn, yn = names(0), names(1)
	}
	var parts []string
	if t.Linear != nil && !t.LinearObvious {
		parts = append(parts, yn+"[i] = "+t.Linear.A.String()+"*"+xn+"[i] + "+t.Linear.B.String())
	}
	if t.Comparison != "" && !t.ComparisonObvious {
		parts = append(parts, xn+" "+t.Comparison+" "+yn+" (lexicographically)")
	}
	if t.Reverse {
		parts = append(parts, xn+" = reverse("+yn+")")
	}
	if t.SubSeq && !t.SubSeqObvious {
		parts = append(parts, xn+" is a subsequence of "+yn)
	}
	if t.SuperSeq && !t.SuperSeqObvious {
		parts = append(parts, xn+" is a supersequence of "+yn)
	}
	return strings.Join(parts, " and ")
}

// BuildTwoSequence constructs the pairwise invariant between sequence x
// (Values[0]) and sequence y (Values[1]) over rows already filtered to
// exclude samples where either endpoint is missing (spec.md §4.3).
func BuildTwoSequence(vx, vy *model.VarInfo, rows []Row, opts Options) *TwoSequence {
	samples, distinct := samplesAndDistinct(rows)
	t := &TwoSequence{Base: NewBase(samples, distinct, false, pairValues(rows), opts.OneOfThreshold)}
	t.LinearObvious = isSliceObvious(vx.Name, vy.Name) || isSliceObvious(vy.Name, vx.Name)
	t.ComparisonObvious = t.LinearObvious
	t.SubSeqObvious = t.LinearObvious
	t.SuperSeqObvious = t.LinearObvious

	if len(rows) == 0 {
		return t
	}

	t.Linear = fitPointwiseLinear(rows)
	t.Comparison = fitSeqComparison(rows)
	t.Reverse = everyPairReverse(rows)
	t.SubSeq, t.SuperSeq = everyPairSubSuper(rows)

	return t
}

// fitPointwiseLinear requires equal-length sequences and at least two
// elements, and derives its trial fit from the first pair's first two
// indices (spec.md §4.4).
func fitPointwiseLinear(rows []Row) *Linear {
	var base *Row
	for i := range rows {
		xs, ys := rows[i].Values[0].Elems, rows[i].Values[1].Elems
		if len(xs) >= 2 && len(xs) == len(ys) {
			base = &rows[i]
			break
		}
	}
	if base == nil {
		return nil
	}
	x0, y0 := base.Values[0].Elems[0].Int, base.Values[1].Elems[0].Int
	x1, y1 := base.Values[0].Elems[1].Int, base.Values[1].Elems[1].Int
	dx := sub(x1, x0)
	if dx.Sign() == 0 {
		return nil
	}
	aNum := sub(y1, y0)
	bNum := sub(mul(y0, x1), mul(x0, y1))
	a, aRem := new(big.Int).QuoRem(aNum, dx, new(big.Int))
	b, bRem := new(big.Int).QuoRem(bNum, dx, new(big.Int))
	if aRem.Sign() != 0 || bRem.Sign() != 0 {
		return nil
	}
	for _, r := range rows {
		xs, ys := r.Values[0].Elems, r.Values[1].Elems
		if len(xs) != len(ys) {
			return nil
		}
		for i := range xs {
			if xs[i].Missing || ys[i].Missing {
				continue
			}
			want := ys[i].Int
			got := add(mul(a, xs[i].Int), b)
			if want.Cmp(got) != 0 {
				return nil
			}
		}
	}
	return &Linear{A: a, B: b}
}

// fitSeqComparison orders two sequences lexicographically across every
// sample, eliminating impossible relations exactly as the scalar case
// does (spec.md §4.4).
func fitSeqComparison(rows []Row) string {
	canLt, canLe, canGt, canGe, canEq := true, true, true, true, true
	for _, r := range rows {
		c := compareSeq(r.Values[0].Elems, r.Values[1].Elems)
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
	}
	switch {
	case canEq:
		return "="
	case canLt:
		return "<"
	case canLe:
		return "<="
	case canGt:
		return ">"
	case canGe:
		return ">="
	default:
		return ""
	}
}

func everyPairReverse(rows []Row) bool {
	for _, r := range rows {
		xs, ys := r.Values[0].Elems, r.Values[1].Elems
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if xs[i].Missing || ys[len(ys)-1-i].Missing {
				continue
			}
			if xs[i].Int.Cmp(ys[len(ys)-1-i].Int) != 0 {
				return false
			}
		}
	}
	return true
}

// everyPairSubSuper reports whether x is a (non-contiguous) subsequence
// of y in every sample, and/or a supersequence, matching the "is one a
// contiguous or non-contiguous subsequence of the other" semantics of
// spec.md §4.4 via the standard order-preserving-deletion predicate.
func everyPairSubSuper(rows []Row) (sub, super bool) {
	sub, super = true, true
	for _, r := range rows {
		xs, ys := r.Values[0].Elems, r.Values[1].Elems
		if !isSubsequence(xs, ys) {
			sub = false
		}
		if !isSubsequence(ys, xs) {
			super = false
		}
		if !sub && !super {
			return false, false
		}
	}
	return sub, super
}

// isSubsequence reports whether a can be obtained from b by deleting
// zero or more elements without reordering the rest.
func isSubsequence(a, b []model.Value) bool {
	i := 0
	for j := 0; i < len(a) && j < len(b); j++ {
		if !a[i].Missing && !b[j].Missing && a[i].Int.Cmp(b[j].Int) == 0 {
			i++
		}
	}
	return i == len(a)
}

// isSliceObvious suppresses a relation between seq a and seq b when a's
// name is already a slicing expression derived from b (spec.md §4.4).
func isSliceObvious(a, b string) bool {
	return strings.HasPrefix(a, b+"[") && strings.HasSuffix(a, "]")
}
