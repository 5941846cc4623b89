package trace

import (
	"dinv/internal/derive"
	"dinv/internal/errors"
	"dinv/internal/model"
)

// ingestor holds the mutable state threaded through one file's worth of
// rawRecords: the program points built so far, each one's original
// entry-name schema (for spec.md §7's consistency check), the indices
// of any injected "num_calls"/"_orig" variables, and the per-function
// BEGIN/END bookkeeping of spec.md §6.
type ingestor struct {
	filename string
	opts     Options

	points      map[string]*model.ProgramPoint
	schemas     map[string][]string
	numCallsIdx map[string]int
	origIdx     map[string][]int
	origStacks  *origStacks
	invocation  map[string]*derive.InvocationCounter
}

func (ing *ingestor) invocationCounter(fn string) *derive.InvocationCounter {
	c, ok := ing.invocation[fn]
	if !ok {
		c = derive.NewInvocationCounter()
		ing.invocation[fn] = c
	}
	return c
}

// apply resolves one rawRecord against the ingestor's state: creating a
// fresh program point (plus its trace-load-time derived variables) the
// first time a label is seen, or checking schema consistency on every
// later occurrence, then accumulating one value-tuple.
func (ing *ingestor) apply(rec *rawRecord) error {
	names := make([]string, len(rec.entries))
	for i, e := range rec.entries {
		names[i] = e.name
	}

	point, exists := ing.points[rec.point]
	if !exists {
		point = model.NewProgramPoint(rec.point)
		for _, e := range rec.entries {
			point.Registry.AddVariable(e.name, e.kindOf())
		}
		ing.points[rec.point] = point
		ing.schemas[rec.point] = names
		ing.numCallsIdx[rec.point] = -1

		if ing.opts.InjectInvocationCounts {
			ing.numCallsIdx[rec.point] = derive.RegisterVariable(point.Registry)
		}

		if rec.suffix == "END" {
			paramNames, paramKinds := ing.origStacks.params(rec.fn)
			if len(paramNames) > 0 {
				ing.origIdx[rec.point] = derive.RegisterOrig(point.Registry, paramNames, paramKinds)
			}
		}
	} else {
		want := ing.schemas[rec.point]
		if !equalStrings(want, names) {
			pos := errors.Position{Filename: ing.filename, Line: rec.line}
			return errors.InconsistentSchema(pos, rec.point, want, names)
		}
	}

	tuple := make([]model.Value, point.Registry.Len())
	for i, e := range rec.entries {
		tuple[i] = e.value
	}
	if idx := ing.numCallsIdx[rec.point]; idx >= 0 {
		tuple[idx] = model.Int(int64(ing.invocationCounter(rec.fn).Next(rec.fn)))
	}
	if origIdxs, ok := ing.origIdx[rec.point]; ok {
		vals := ing.origStacks.pop(rec.fn)
		for i, idx := range origIdxs {
			if i < len(vals) {
				tuple[idx] = vals[i]
			} else {
				tuple[idx] = model.Missing()
			}
		}
	}

	point.Table.Accumulate(tuple)

	if rec.suffix == "BEGIN" {
		pnames, pkinds, pvalues := buildParamSnapshot(rec)
		ing.origStacks.push(rec.fn, pnames, pkinds, pvalues)
	}
	return nil
}

// buildParamSnapshot derives the formal-parameter name/kind/value triple
// for a BEGIN record: from the label's declared parameter list when
// present, matched against the record's own entries by name; falling
// back to the entries themselves, in order, when the label declared no
// parameter list at all (spec.md §6).
func buildParamSnapshot(rec *rawRecord) (names []string, kinds []model.Kind, values []model.Value) {
	if len(rec.params) == 0 {
		names = make([]string, len(rec.entries))
		kinds = make([]model.Kind, len(rec.entries))
		values = make([]model.Value, len(rec.entries))
		for i, e := range rec.entries {
			names[i], kinds[i], values[i] = e.name, e.kindOf(), e.value
		}
		return
	}

	byName := map[string]rawEntry{}
	for _, e := range rec.entries {
		byName[e.name] = e
	}
	names = make([]string, len(rec.params))
	kinds = make([]model.Kind, len(rec.params))
	values = make([]model.Value, len(rec.params))
	for i, p := range rec.params {
		names[i] = p.Name
		if e, ok := byName[p.Name]; ok {
			kinds[i], values[i] = e.kindOf(), e.value
			continue
		}
		if p.Seq {
			kinds[i], values[i] = model.Sequence, model.MissingSeq()
		} else {
			kinds[i], values[i] = model.Scalar, model.Missing()
		}
	}
	return
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
