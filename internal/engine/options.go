// Package engine implements the fixpoint inference driver of spec.md
// §4.3: the monotone (k0, k1, k2) loop that alternates singleton/
// pairwise/ternary inference with derivation-pass invocation.
package engine

// Options carries the tuning knobs of spec.md §6.
type Options struct {
	NoTernaryInvariants         bool
	NoInvocationCounts          bool
	CollectStats                bool
	NegativeInvariantConfidence float64
	OneOfThreshold              int
}

// DefaultOptions mirrors spec.md §6's stated defaults.
func DefaultOptions() Options {
	return Options{
		NoTernaryInvariants:         true,
		NoInvocationCounts:          true,
		CollectStats:                true,
		NegativeInvariantConfidence: 0.01,
		OneOfThreshold:              5,
	}
}
