package invariant

import (
	"fmt"
	"strings"

	"dinv/internal/model"
)

// SingleSequence is the singleton invariant for one sequence variable
// (spec.md §3).
type SingleSequence struct {
	Base

	LexMin, LexMax []model.Value // nil if every sample is missing
	EltsEqual      bool
	NonDecreasing  bool
	NonIncreasing  bool

	// AllIndexSNI is the embedded SingleScalar over the multiset of all
	// elements of all observed (non-missing) sequences (spec.md §3).
	AllIndexSNI *SingleScalar
}

func (s *SingleSequence) Meta() *Base { return &s.Base }

func (s *SingleSequence) IsUnconstrained() bool {
	return s.Unconstrained
}

func (s *SingleSequence) Format(names func(i int) string) string {
	if s.Unconstrained {
		return ""
	}
	if s.OneOf != nil {
		parts := make([]string, len(s.OneOf))
		for i, v := range s.OneOf {
			parts[i] = v.String()
		}
		return "one of {" + strings.Join(parts, ", ") + "}"
	}
	var parts []string
	if s.EltsEqual {
		parts = append(parts, "elements all equal")
	}
	if s.NonDecreasing {
		parts = append(parts, "non-decreasing")
	}
	if s.NonIncreasing {
		parts = append(parts, "non-increasing")
	}
	if s.LexMin != nil && s.LexMax != nil {
		parts = append(parts, fmt.Sprintf("in [%s..%s]", seqString(s.LexMin), seqString(s.LexMax)))
	}
	if s.AllIndexSNI != nil && !s.AllIndexSNI.IsUnconstrained() {
		if f := s.AllIndexSNI.Format(names); f != "" {
			parts = append(parts, "elements "+f)
		}
	}
	return strings.Join(parts, "; ")
}

func seqString(elems []model.Value) string {
	return model.Sequence(elems).String()
}

func compareSeq(a, b []model.Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Missing || b[i].Missing {
			continue
		}
		if c := a[i].Int.Cmp(b[i].Int); c != 0 {
			return c
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}

// BuildSingleSequence constructs the singleton invariant for a sequence
// variable from its Rows (spec.md §4.4).
func BuildSingleSequence(v *model.VarInfo, rows []Row, opts Options) *SingleSequence {
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

	s := &SingleSequence{Base: NewBase(samples, distinct, canBeMissing, oneOfVals, opts.OneOfThreshold)}

	if canBeMissing {
		// spec.md §3: a single missing sequence forces all three flags to
		// false and the full invariant to unconstrained.
		s.Unconstrained = true
		return s
	}

	if len(present) == 0 {
		s.Unconstrained = true
		return s
	}

	eltsEqual, nonDec, nonInc := true, true, true
	var allElems []model.Value
	var lexMin, lexMax []model.Value
	for i, r := range present {
		seq := r.Values[0].Elems
		allElems = append(allElems, seq...)
		if !isEltsEqual(seq) {
			eltsEqual = false
		}
		if !isNonDecreasing(seq) {
			nonDec = false
		}
		if !isNonIncreasing(seq) {
			nonInc = false
		}
		if i == 0 || compareSeq(seq, lexMin) < 0 {
			lexMin = seq
		}
		if i == 0 || compareSeq(seq, lexMax) > 0 {
			lexMax = seq
		}
	}
	s.EltsEqual = eltsEqual
	s.NonDecreasing = nonDec
	s.NonIncreasing = nonInc
	s.LexMin = lexMin
	s.LexMax = lexMax

	if len(allElems) > 0 {
		elemRows := make([]Row, len(allElems))
		for i, e := range allElems {
			elemRows[i] = Row{Values: []model.Value{e}, Count: 1}
		}
		elemRows = mergeRows(elemRows)
		synthetic := &model.VarInfo{Name: "elt"}
		s.AllIndexSNI = BuildSingleScalar(synthetic, elemRows, opts)
	}

	return s
}

func isEltsEqual(seq []model.Value) bool {
	if len(seq) == 0 {
		return true
	}
	for _, e := range seq[1:] {
		if !e.Equal(seq[0]) {
			return false
		}
	}
	return true
}

func isNonDecreasing(seq []model.Value) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i-1].Missing || seq[i].Missing {
			continue
		}
		if seq[i-1].Int.Cmp(seq[i].Int) > 0 {
			return false
		}
	}
	return true
}

func isNonIncreasing(seq []model.Value) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i-1].Missing || seq[i].Missing {
			continue
		}
		if seq[i-1].Int.Cmp(seq[i].Int) < 0 {
			return false
		}
	}
	return true
}

// mergeRows sums counts for equal-keyed rows, used when flattening
// sequence elements into a scalar sample set.
func mergeRows(rows []Row) []Row {
	byKey := map[string]*Row{}
	var order []string
	for _, r := range rows {
		k := r.Values[0].Key()
		if existing, ok := byKey[k]; ok {
			existing.Count += r.Count
			continue
		}
		cp := r
		byKey[k] = &cp
		order = append(order, k)
	}
	out := make([]Row, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}
