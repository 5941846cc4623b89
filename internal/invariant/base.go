// Package invariant implements the polymorphic invariant lattice of
// spec.md §3/§4.4: singleton scalar/sequence invariants and pairwise/
// triple invariants over scalars and sequences, their formation rules,
// statistical justification, and formatting.
package invariant

import "dinv/internal/model"

// Invariant is the common interface over every invariant kind. Formatting
// and justification dispatch is exhaustive over the small closed set of
// concrete types below (SingleScalar, SingleSequence, TwoScalar,
// ThreeScalar, ScalarSequence, TwoSequence) — a tagged sum expressed as a
// Go interface plus one struct per tag, per spec.md §9's "best expressed
// as a tagged sum" note.
type Invariant interface {
	// Format returns the human-readable invariant text (without the
	// trailing "(k values[, can be missing])" suffix, which
	// internal/report appends uniformly).
	Format(names func(i int) string) string

	// IsUnconstrained reports whether nothing useful was inferred — the
	// caller suppresses these unless explicitly asked to show them.
	IsUnconstrained() bool

	// Meta returns the shared bookkeeping fields common to every kind.
	Meta() *Base
}

// Base carries the attributes common to every invariant (spec.md §3):
// sample count, distinct-tuple count, can_be_missing, and an optional
// one_of enumeration retained when the distinct count is small.
type Base struct {
	Samples         int
	Distinct        int
	CanBeMissing    bool
	OneOf           []model.Value // nil unless Distinct <= OneOfThreshold
	OneOfThreshold  int
	Unconstrained   bool
}

// NewBase builds a Base from a tabulated sample count, distinct count,
// and can-be-missing flag, populating OneOf when distinct <= threshold.
func NewBase(samples, distinct int, canBeMissing bool, values []model.Value, threshold int) Base {
	b := Base{
		Samples:        samples,
		Distinct:       distinct,
		CanBeMissing:   canBeMissing,
		OneOfThreshold: threshold,
	}
	if distinct > 0 && distinct <= threshold {
		b.OneOf = values
	}
	return b
}
