package invariant

import (
	"strings"

	"dinv/internal/model"
)

// ScalarSequence is the pairwise invariant between a scalar variable
// (Values[0]) and a sequence variable (Values[1]), per spec.md §3. The
// data model's "scl is the size of seq" flag is intentionally omitted
// (spec.md §9 open question (b): superseded by the explicit size(seq)
// derived variable, implementations may omit it).
type ScalarSequence struct {
	Base

	Member         bool // the scalar appears in the sequence, every sample
	MemberObvious  bool
}

func (s *ScalarSequence) Meta() *Base { return &s.Base }

func (s *ScalarSequence) IsUnconstrained() bool { return !s.Member }

func (s *ScalarSequence) Format(names func(i int) string) string {
	if !s.Member || s.MemberObvious {
		return ""
	}
	scalarName, seqName := "x", "s"
	if names != nil {
		scalarName, seqName = names(0), names(1)
	}
	return scalarName + " in " + seqName
}

// BuildScalarSequence constructs the invariant between scalar scl
// (Values[0]) and sequence seq (Values[1]) over rows already filtered to
// exclude samples where either endpoint is missing (spec.md §4.3).
func BuildScalarSequence(vScl, vSeq *model.VarInfo, rows []Row, opts Options) *ScalarSequence {
	samples, distinct := samplesAndDistinct(rows)
	s := &ScalarSequence{Base: NewBase(samples, distinct, false, pairValues(rows), opts.OneOfThreshold)}
	s.MemberObvious = isMembershipObvious(vScl.Name, vSeq.Name)

	if len(rows) == 0 {
		return s
	}
	member := true
	for _, r := range rows {
		found := false
		for _, e := range r.Values[1].Elems {
			if !e.Missing && e.Int.Cmp(r.Values[0].Int) == 0 {
				found = true
				break
			}
		}
		if !found {
			member = false
			break
		}
	}
	s.Member = member
	return s
}

// isMembershipObvious suppresses "x in s" when x's name already proves
// it structurally: size(s), min(s), max(s), or s[i] (spec.md §4.4,
// SPEC_FULL.md §12).
func isMembershipObvious(scalarName, seqName string) bool {
	for _, prefix := range []string{"size(", "min(", "max("} {
		if scalarName == prefix+seqName+")" {
			return true
		}
	}
	if strings.HasPrefix(scalarName, seqName+"[") && strings.HasSuffix(scalarName, "]") {
		return true
	}
	return false
}
