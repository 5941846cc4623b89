package derive

import (
	"fmt"
	"math/big"

	"dinv/internal/invariant"
	"dinv/internal/model"
)

// Pass2 introduces aggregates and element/prefix-slice derivations
// (spec.md §4.2).
var Pass2 = &Pass{
	Name:               "pass2",
	FromSequence:       pass2FromSequence,
	FromSequenceScalar: pass2FromSequenceScalar,
	FromScalarSequence: pass2FromScalarSequence,
}

// pass2FromSequence appends sum(s), min(s), max(s) unconditionally, and,
// for an original sequence with a known size, the first/last one-or-two
// elements (spec.md §4.2).
func pass2FromSequence(ctx *Context, seed int) bool {
	s := ctx.Reg.At(seed)

	appendAgg := func(name string, f func(seq model.Value) model.Value) {
		idx := ctx.Reg.AddVariable(name, model.Scalar)
		ctx.Reg.At(idx).IsDerived = true
		ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
			return f(tuple[seed])
		})
	}

	appendAgg("sum("+s.Name+")", func(seq model.Value) model.Value {
		if seq.Missing {
			return model.Missing()
		}
		sum := big.NewInt(0)
		for _, e := range seq.Elems {
			if !e.Missing {
				sum.Add(sum, e.Int)
			}
		}
		return model.BigInt(sum)
	})
	appendAgg("min("+s.Name+")", func(seq model.Value) model.Value {
		return extremum(seq, false)
	})
	appendAgg("max("+s.Name+")", func(seq model.Value) model.Value {
		return extremum(seq, true)
	})

	if !s.IsDerived && s.DerivedLen.Kind == model.LenIndex {
		appendElements(ctx, seed, s)
	}

	return true
}

func extremum(seq model.Value, wantMax bool) model.Value {
	if seq.Missing || len(seq.Elems) == 0 {
		return model.Missing()
	}
	var best *model.Value
	for i := range seq.Elems {
		e := seq.Elems[i]
		if e.Missing {
			continue
		}
		if best == nil {
			best = &seq.Elems[i]
			continue
		}
		c := e.Int.Cmp(best.Int)
		if (wantMax && c > 0) || (!wantMax && c < 0) {
			best = &seq.Elems[i]
		}
	}
	if best == nil {
		return model.Missing()
	}
	return *best
}

// appendElements implements spec.md §4.2's "first and last one or two
// elements" rule: L = min(2, size(s).min); append s[0..L) always, and
// s[-L..-1] too when L != size(s).max (so a sequence long enough to have
// distinct first/last elements gets both, but a sequence that is always
// exactly L long does not get a redundant duplicate set).
func appendElements(ctx *Context, seed int, s *model.VarInfo) {
	sizeVar := ctx.Reg.At(s.DerivedLen.Index)
	sizeInv, ok := sizeVar.Invariant.(*invariant.SingleScalar)
	if !ok || sizeInv.Min == nil || !sizeInv.Min.IsInt64() {
		return
	}
	L := int(sizeInv.Min.Int64())
	if L > 2 {
		L = 2
	}
	if L < 0 {
		return
	}
	for i := 0; i < L; i++ {
		ii := i
		idx := ctx.Reg.AddVariable(fmt.Sprintf("%s[%d]", s.Name, ii), model.Scalar)
		ctx.Reg.At(idx).IsDerived = true
		ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
			seq := tuple[seed]
			if seq.Missing || ii >= len(seq.Elems) {
				return model.Missing()
			}
			return seq.Elems[ii]
		})
	}

	maxKnown := sizeInv.Max != nil && sizeInv.Max.IsInt64()
	if maxKnown && L == int(sizeInv.Max.Int64()) {
		return
	}
	for i := 0; i < L; i++ {
		neg := -(L - i)
		idx := ctx.Reg.AddVariable(fmt.Sprintf("%s[%d]", s.Name, neg), model.Scalar)
		ctx.Reg.At(idx).IsDerived = true
		ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
			seq := tuple[seed]
			if seq.Missing {
				return model.Missing()
			}
			pos := len(seq.Elems) + neg
			if pos < 0 || pos >= len(seq.Elems) {
				return model.Missing()
			}
			return seq.Elems[pos]
		})
	}
}

// pass2FromSequenceScalar implements spec.md §4.2's prefix-slice and
// element-index derivation between sequence seq and scalar n.
func pass2FromSequenceScalar(ctx *Context, seq, scalar int) bool {
	sv := ctx.Reg.At(seq)
	nv := ctx.Reg.At(scalar)

	if nv.IsDerived {
		return false
	}
	if isSizeOf(ctx.Reg, seq, scalar) {
		return false
	}
	nConst, nExact := exactConstant(nv)
	if nExact && nConst <= 1 {
		return false
	}
	if canBeMissing(sv) || canBeMissing(nv) {
		return false
	}
	if sv.IsDerived {
		return false
	}

	changed := false
	name1 := fmt.Sprintf("%s[0..%s]", sv.Name, nv.Name)
	idx1 := ctx.Reg.AddVariable(name1, model.Sequence)
	ctx.Reg.At(idx1).IsDerived = true
	ctx.Reg.At(idx1).DerivedLen = model.ConstLen()
	ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
		s, n := tuple[seq], tuple[scalar]
		if s.Missing || n.Missing || !n.Int.IsInt64() {
			return model.MissingSeq()
		}
		return sliceSeq(s, 0, int(n.Int.Int64())+1)
	})
	changed = true

	skipPredecessor := nExact && nConst == 1
	if !skipPredecessor {
		name2 := fmt.Sprintf("%s[0..%s-1]", sv.Name, nv.Name)
		idx2 := ctx.Reg.AddVariable(name2, model.Sequence)
		ctx.Reg.At(idx2).IsDerived = true
		ctx.Reg.At(idx2).DerivedLen = model.IndexLen(scalar)
		ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
			s, n := tuple[seq], tuple[scalar]
			if s.Missing || n.Missing || !n.Int.IsInt64() {
				return model.MissingSeq()
			}
			return sliceSeq(s, 0, int(n.Int.Int64()))
		})
	}

	if !skipPredecessor && sv.DerivedLen.Kind == model.LenIndex {
		sizeInv, ok1 := ctx.Reg.At(sv.DerivedLen.Index).Invariant.(*invariant.SingleScalar)
		nInv, ok2 := nv.Invariant.(*invariant.SingleScalar)
		if ok1 && ok2 && sizeInv.Max != nil && nInv.Max != nil && nInv.Max.Cmp(sizeInv.Max) <= 0 {
			name3 := fmt.Sprintf("%s[%s]", sv.Name, nv.Name)
			idx3 := ctx.Reg.AddVariable(name3, model.Scalar)
			ctx.Reg.At(idx3).IsDerived = true
			ctx.Tab.ExtendAll(func(tuple []model.Value) model.Value {
				s, n := tuple[seq], tuple[scalar]
				if s.Missing || n.Missing || !n.Int.IsInt64() {
					return model.Missing()
				}
				i := int(n.Int.Int64())
				if i < 0 || i >= len(s.Elems) {
					return model.Missing()
				}
				return s.Elems[i]
			})
		}
	}

	return changed
}

// pass2FromScalarSequence delegates to pass2FromSequenceScalar with
// arguments swapped (spec.md §4.2).
func pass2FromScalarSequence(ctx *Context, scalar, seq int) bool {
	return pass2FromSequenceScalar(ctx, seq, scalar)
}

func sliceSeq(s model.Value, lo, hi int) model.Value {
	if lo < 0 || hi > len(s.Elems) || hi < lo {
		return model.MissingSeq()
	}
	elems := append([]model.Value(nil), s.Elems[lo:hi]...)
	return model.Sequence(elems)
}

func isSizeOf(reg *model.Registry, seq, scalar int) bool {
	s := reg.At(seq)
	if s.DerivedLen.Kind != model.LenIndex {
		return false
	}
	sizeIdx := s.DerivedLen.Index
	if sizeIdx == scalar {
		return true
	}
	for _, e := range reg.At(sizeIdx).EqualTo {
		if e == scalar {
			return true
		}
	}
	return false
}

func exactConstant(v *model.VarInfo) (int64, bool) {
	ss, ok := v.Invariant.(*invariant.SingleScalar)
	if !ok || ss.Min == nil || ss.Max == nil || ss.Min.Cmp(ss.Max) != 0 || !ss.Min.IsInt64() {
		return 0, false
	}
	return ss.Min.Int64(), true
}

func canBeMissing(v *model.VarInfo) bool {
	inv, ok := v.Invariant.(invariant.Invariant)
	if !ok {
		return false
	}
	return inv.Meta().CanBeMissing
}
