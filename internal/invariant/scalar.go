package invariant

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"dinv/internal/model"
)

// Modulus is an (r, m) pair: every (or no) observed value is ≡ r (mod m).
type Modulus struct {
	R, M int64
}

// SingleScalar is the singleton invariant for one scalar variable
// (spec.md §3).
type SingleScalar struct {
	Base

	Min, Max               *big.Int
	MinJustified           bool
	MaxJustified           bool
	CanBeZero              bool
	ZeroJustified          bool // "!= 0" is justified (the negative property)
	Modulus                *Modulus
	Nonmodulus              *Modulus
	NonnegativeObvious     bool // name begins "size(" (spec.md §3 SingleScalar)
}

func (s *SingleScalar) Meta() *Base { return &s.Base }

// IsUnconstrained reports whether nothing beyond bare observation was
// learned (no useful range/modulus/zero claim).
func (s *SingleScalar) IsUnconstrained() bool {
	if s.Unconstrained {
		return true
	}
	if s.OneOf != nil {
		return false
	}
	return s.Min == nil && s.Max == nil && s.Modulus == nil && s.Nonmodulus == nil && !s.ZeroJustified
}

func (s *SingleScalar) Format(names func(i int) string) string {
	if s.Unconstrained {
		return ""
	}
	var parts []string
	if s.Min != nil && s.Max != nil {
		if s.Min.Cmp(s.Max) == 0 {
			parts = append(parts, fmt.Sprintf("= %s", s.Min.String()))
		} else {
			lo, hi := "", ""
			if s.MinJustified {
				lo = s.Min.String()
			} else {
				lo = "?"
			}
			if s.MaxJustified {
				hi = s.Max.String()
			} else {
				hi = "?"
			}
			parts = append(parts, fmt.Sprintf("in [%s..%s]", lo, hi))
		}
	}
	if s.ZeroJustified {
		parts = append(parts, "!= 0")
	}
	if s.Modulus != nil {
		parts = append(parts, fmt.Sprintf("= %d (mod %d)", s.Modulus.R, s.Modulus.M))
	}
	if s.Nonmodulus != nil {
		parts = append(parts, fmt.Sprintf("!= %d (mod %d)", s.Nonmodulus.R, s.Nonmodulus.M))
	}
	if len(parts) == 0 {
		if s.OneOf != nil {
			vals := make([]string, len(s.OneOf))
			for i, v := range s.OneOf {
				vals[i] = v.String()
			}
			return "one of {" + strings.Join(vals, ", ") + "}"
		}
		return ""
	}
	return strings.Join(parts, " and ")
}

// BuildSingleScalar constructs the singleton invariant for a scalar
// variable from its Rows (each Row's Values must have len 1: the
// variable's own slot), per spec.md §4.4.
func BuildSingleScalar(v *model.VarInfo, rows []Row, opts Options) *SingleScalar {
	samples, distinct := samplesAndDistinct(rows)
	canBeMissing := false
	var present []Row
	for _, r := range rows {
		if r.Values[0].Missing {
			canBeMissing = true
			continue
		}
		present = append(present, r)
	}

	oneOfVals := make([]model.Value, 0, len(rows))
	for _, r := range rows {
		oneOfVals = append(oneOfVals, r.Values[0])
	}

	s := &SingleScalar{Base: NewBase(samples, distinct, canBeMissing, oneOfVals, opts.OneOfThreshold)}
	s.NonnegativeObvious = strings.HasPrefix(v.Name, "size(")

	if len(present) == 0 {
		s.Unconstrained = true
		return s
	}

	sort.Slice(present, func(i, j int) bool {
		return present[i].Values[0].Int.Cmp(present[j].Values[0].Int) < 0
	})
	s.Min = present[0].Values[0].Int
	s.Max = present[len(present)-1].Values[0].Int

	presentSamples := 0
	for _, r := range present {
		presentSamples += r.Count
	}
	rng := 0
	if diff := new(big.Int).Sub(s.Max, s.Min); diff.IsInt64() {
		rng = int(diff.Int64()) + 1
	}
	s.MinJustified = minJustified(presentSamples, present[0].Count, neighborCount(present, 1), rng)
	s.MaxJustified = minJustified(presentSamples, present[len(present)-1].Count, neighborCount(present, len(present)-2), rng)

	zeroSeen := false
	for _, r := range present {
		if r.Values[0].Int.Sign() == 0 {
			zeroSeen = true
			break
		}
	}
	s.CanBeZero = zeroSeen
	if !zeroSeen {
		// Nonzero is the nonmodulus(0, 1)-adjacent degenerate case
		// (SPEC_FULL.md §12): justify with p = probability a uniformly
		// chosen value in the observed range is zero.
		p := 0.0
		if rng > 0 && s.Min.Sign() <= 0 && s.Max.Sign() >= 0 {
			p = 1.0 / float64(rng)
		}
		s.ZeroJustified = p > 0 && justified(p, presentSamples, opts.NegativeConfidence)
	}

	mod := findModulus(present)
	if mod != nil {
		// modulus is a negative property exactly like != 0 and
		// nonmodulus (spec.md §4.4): justify before reporting, not just
		// before storing.
		p := 1.0 / float64(mod.M)
		if !justified(p, presentSamples, opts.NegativeConfidence) {
			mod = nil
		}
	}
	if mod != nil {
		s.Modulus = mod
	} else if nz := findNonmodulus(present, presentSamples, opts.NegativeConfidence); nz != nil {
		s.Nonmodulus = nz
	}

	return s
}

func neighborCount(present []Row, idx int) int {
	if idx < 0 || idx >= len(present) {
		return 0
	}
	return present[idx].Count
}

// findModulus returns the greatest m >= 2 such that every observed value
// is ≡ r (mod m), computed as the gcd of pairwise differences from the
// first value (spec.md §4.4).
func findModulus(present []Row) *Modulus {
	if len(present) < 2 {
		return nil
	}
	base := present[0].Values[0].Int
	g := big.NewInt(0)
	for _, r := range present[1:] {
		diff := new(big.Int).Sub(r.Values[0].Int, base)
		diff.Abs(diff)
		g.GCD(nil, nil, g, diff)
	}
	if g.Sign() == 0 || g.Cmp(big.NewInt(2)) < 0 {
		return nil
	}
	m := g.Int64()
	r := new(big.Int).Mod(base, g).Int64()
	return &Modulus{R: r, M: m}
}

// findNonmodulus searches small moduli (2..nonmodulusSearchBound) for a
// residue class that no observed value falls into, justified at
// confidence alpha (spec.md §4.4, §9 open question (a): strict
// filtering is the default here).
func findNonmodulus(present []Row, samples int, alpha float64) *Modulus {
	const nonmodulusSearchBound = 10
	for m := int64(2); m <= nonmodulusSearchBound; m++ {
		seen := make([]bool, m)
		for _, r := range present {
			res := new(big.Int).Mod(r.Values[0].Int, big.NewInt(m)).Int64()
			seen[res] = true
		}
		for r, ok := range seen {
			if ok {
				continue
			}
			p := 1.0 / float64(m)
			if justified(p, samples, alpha) {
				return &Modulus{R: int64(r), M: m}
			}
		}
	}
	return nil
}
