package engine

import (
	"dinv/internal/invariant"
	"dinv/internal/model"
)

func invOptions(o Options) invariant.Options {
	return invariant.Options{
		NegativeConfidence: o.NegativeInvariantConfidence,
		OneOfThreshold:     o.OneOfThreshold,
	}
}

// projectRows re-tabulates tab's stored tuples down to the given slot
// indices, merging by summing counts when the projection collapses
// distinct tuples together.
func projectRows(tab *model.Tabulator, idxs ...int) []invariant.Row {
	type entry struct {
		values []model.Value
		count  int
	}
	byKey := map[string]*entry{}
	var order []string
	tab.Each(func(tuple []model.Value, count int) {
		vals := make([]model.Value, len(idxs))
		for i, idx := range idxs {
			vals[i] = tuple[idx]
		}
		key := rowKey(vals)
		if e, ok := byKey[key]; ok {
			e.count += count
			return
		}
		byKey[key] = &entry{values: vals, count: count}
		order = append(order, key)
	})
	out := make([]invariant.Row, 0, len(order))
	for _, k := range order {
		e := byKey[k]
		out = append(out, invariant.Row{Values: e.values, Count: e.count})
	}
	return out
}

func rowKey(vals []model.Value) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += "|"
		}
		s += v.Key()
	}
	return s
}

// withoutMissing drops every row carrying a missing value in any slot;
// used once the can-be-missing guard has already decided a pair/triple
// is eligible, since a variable whose CanBeMissing is false still
// carries no missing samples by construction.
func withoutMissing(rows []invariant.Row) []invariant.Row {
	out := rows[:0:0]
	for _, r := range rows {
		ok := true
		for _, v := range r.Values {
			if v.Missing {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// inferSingleton builds the singleton invariant for variable i.
func inferSingleton(reg *model.Registry, tab *model.Tabulator, i int, opts Options) {
	v := reg.At(i)
	rows := projectRows(tab, i)
	switch v.Kind {
	case model.Scalar:
		v.Invariant = invariant.BuildSingleScalar(v, rows, invOptions(opts))
	case model.Sequence:
		v.Invariant = invariant.BuildSingleSequence(v, rows, invOptions(opts))
	}
}

func varInvariant(v *model.VarInfo) (invariant.Invariant, bool) {
	inv, ok := v.Invariant.(invariant.Invariant)
	return inv, ok
}

func canBeMissing(v *model.VarInfo) bool {
	inv, ok := varInvariant(v)
	return ok && inv.Meta().CanBeMissing
}

func isVacuous(v *model.VarInfo) bool {
	inv, ok := varInvariant(v)
	if !ok {
		return false
	}
	b := inv.Meta()
	return b.Distinct == 1 && b.CanBeMissing && len(b.OneOf) == 1 && b.OneOf[0].Missing
}

// isExact reports whether v's singleton invariant shows exactly one
// non-missing distinct value (spec.md §4.3's "exact (constant)
// variables").
func isExact(v *model.VarInfo) bool {
	inv, ok := varInvariant(v)
	if !ok {
		return false
	}
	b := inv.Meta()
	return b.Distinct == 1 && !b.CanBeMissing
}

// exactValue returns v's single observed value, assuming isExact(v).
func exactValue(reg *model.Registry, tab *model.Tabulator, i int) model.Value {
	rows := projectRows(tab, i)
	if len(rows) == 0 {
		return model.Missing()
	}
	return rows[0].Values[0]
}

// inferPair builds the pairwise invariant for canonical, non-vacuous,
// non-missing-capable variables i < j, applying spec.md §4.3's exact-
// constant equality shortcut and spec.md §4.5's equality propagation.
func inferPair(reg *model.Registry, tab *model.Tabulator, i, j int, opts Options) {
	vi, vj := reg.At(i), reg.At(j)
	if !vi.IsCanonical() || !vj.IsCanonical() {
		return
	}
	if isVacuous(vi) || isVacuous(vj) {
		return
	}
	if canBeMissing(vi) || canBeMissing(vj) {
		return
	}
	if _, ok := vi.PairInvariant(j); ok {
		return
	}

	if isExact(vi) && isExact(vj) {
		a, b := exactValue(reg, tab, i), exactValue(reg, tab, j)
		if a.Equal(b) {
			reg.UnionEqual(i, j)
		}
		return
	}

	var result invariant.Invariant
	switch {
	case vi.Kind == model.Scalar && vj.Kind == model.Scalar:
		rows := withoutMissing(projectRows(tab, i, j))
		tw := invariant.BuildTwoScalar(vi, vj, rows, invOptions(opts))
		if tw.Comparison == "=" {
			reg.UnionEqual(i, j)
		}
		result = tw
	case vi.Kind == model.Sequence && vj.Kind == model.Sequence:
		rows := withoutMissing(projectRows(tab, i, j))
		ts := invariant.BuildTwoSequence(vi, vj, rows, invOptions(opts))
		if ts.Comparison == "=" {
			reg.UnionEqual(i, j)
		}
		result = ts
	case vi.Kind == model.Scalar && vj.Kind == model.Sequence:
		rows := withoutMissing(projectRows(tab, i, j))
		result = invariant.BuildScalarSequence(vi, vj, rows, invOptions(opts))
	case vi.Kind == model.Sequence && vj.Kind == model.Scalar:
		rows := withoutMissing(projectRows(tab, j, i))
		result = invariant.BuildScalarSequence(vj, vi, rows, invOptions(opts))
	}
	if result != nil {
		vi.SetPairInvariant(j, result)
	}
}

// inferTriple builds the ternary invariant for canonical, non-vacuous,
// non-missing-capable, all-scalar variables i < j < k (spec.md §3 data
// model defines only ThreeScalar; this implementation does not attempt
// ternary invariants mixing in a sequence).
func inferTriple(reg *model.Registry, tab *model.Tabulator, i, j, k int, opts Options) {
	vi, vj, vk := reg.At(i), reg.At(j), reg.At(k)
	if vi.Kind != model.Scalar || vj.Kind != model.Scalar || vk.Kind != model.Scalar {
		return
	}
	if !vi.IsCanonical() || !vj.IsCanonical() || !vk.IsCanonical() {
		return
	}
	if isVacuous(vi) || isVacuous(vj) || isVacuous(vk) {
		return
	}
	if canBeMissing(vi) || canBeMissing(vj) || canBeMissing(vk) {
		return
	}
	if isExact(vi) || isExact(vj) || isExact(vk) {
		return
	}
	if alreadyRelated(reg, i, j) || alreadyRelated(reg, i, k) || alreadyRelated(reg, j, k) {
		return
	}
	if _, ok := vi.TripleInvariant(j, k); ok {
		return
	}

	rows := withoutMissing(projectRows(tab, i, j, k))
	result := invariant.BuildThreeScalar(vi, vj, vk, rows, invOptions(opts))
	vi.SetTripleInvariant(j, k, result)
}

// alreadyRelated reports whether i and j are already known equal
// (spec.md §4.3's triple guard: "any of the three pairs is already
// exactly related").
func alreadyRelated(reg *model.Registry, i, j int) bool {
	for _, e := range reg.At(i).EqualTo {
		if e == j {
			return true
		}
	}
	return false
}
