package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinv/internal/engine"
	"dinv/internal/model"
)

// buildEqualityPoint registers x, y (always equal to each other, a
// constant 5 across every sample) and z (varying), so the fixpoint loop
// must merge x and y into one equality class (spec.md §4.5) and then
// skip re-deriving a pairwise invariant for the now-noncanonical member.
func buildEqualityPoint(n int) *model.ProgramPoint {
	p := model.NewProgramPoint("F:::ENTER")
	xi := p.Registry.AddVariable("x", model.Scalar)
	yi := p.Registry.AddVariable("y", model.Scalar)
	zi := p.Registry.AddVariable("z", model.Scalar)
	for i := 1; i <= n; i++ {
		tuple := make([]model.Value, 3)
		tuple[xi] = model.Int(5)
		tuple[yi] = model.Int(5)
		tuple[zi] = model.Int(int64(i))
		p.Table.Accumulate(tuple)
	}
	return p
}

func TestInferMergesExactConstantsAsEquality(t *testing.T) {
	p := buildEqualityPoint(20)
	d := engine.NewDriver(engine.DefaultOptions(), nil)

	d.Run(p)

	x, y := p.Registry.At(0), p.Registry.At(1)
	assert.Contains(t, x.EqualTo, 1)
	assert.Contains(t, y.EqualTo, 0)
	assert.True(t, x.IsCanonical())
	assert.False(t, y.IsCanonical())
}

func TestInferSkipsPairwiseForNoncanonicalMember(t *testing.T) {
	p := buildEqualityPoint(20)
	d := engine.NewDriver(engine.DefaultOptions(), nil)

	d.Run(p)

	x, y := p.Registry.At(0), p.Registry.At(1)
	_, xHasZ := x.PairInvariant(2)
	_, yHasZ := y.PairInvariant(2)

	require.True(t, xHasZ)
	assert.False(t, yHasZ)
}
