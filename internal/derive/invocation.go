package derive

import "dinv/internal/model"

// InvocationCounter tracks, per function, how many times it has been
// invoked so far (SPEC_FULL.md §12's supplemented feature: the original
// program this spec was distilled from injects a running call counter at
// each program point; spec.md's no_invocation_counts knob, default on,
// names the feature only to say it is off by default — this restores it
// so the knob has something to turn off).
type InvocationCounter struct {
	counts map[string]int
}

// NewInvocationCounter creates an empty counter.
func NewInvocationCounter() *InvocationCounter {
	return &InvocationCounter{counts: make(map[string]int)}
}

// Next increments and returns the call count for fn.
func (c *InvocationCounter) Next(fn string) int {
	c.counts[fn]++
	return c.counts[fn]
}

// RegisterVariable appends the "num_calls" derived scalar variable to
// reg, returning its index.
func RegisterVariable(reg *model.Registry) int {
	idx := reg.AddVariable("num_calls", model.Scalar)
	reg.At(idx).IsDerived = true
	return idx
}
