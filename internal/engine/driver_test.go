package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinv/internal/engine"
	"dinv/internal/invariant"
	"dinv/internal/model"
	"dinv/internal/stats"
)

// buildPoint registers scalars x and y, accumulating n samples where
// y = 2*x + 1, so that the fixpoint loop has both a singleton range and
// a pairwise linear fit to converge on (spec.md §4.3).
func buildPoint(n int) *model.ProgramPoint {
	p := model.NewProgramPoint("F:::ENTER")
	xi := p.Registry.AddVariable("x", model.Scalar)
	yi := p.Registry.AddVariable("y", model.Scalar)
	for i := 1; i <= n; i++ {
		x := int64(i)
		y := 2*x + 1
		tuple := make([]model.Value, 2)
		tuple[xi] = model.Int(x)
		tuple[yi] = model.Int(y)
		p.Table.Accumulate(tuple)
	}
	return p
}

func TestDriverRunInfersPairwiseLinear(t *testing.T) {
	p := buildPoint(50)
	d := engine.NewDriver(engine.DefaultOptions(), nil)

	d.Run(p)

	x := p.Registry.At(0)
	raw, ok := x.PairInvariant(1)
	require.True(t, ok)
	tw, ok := raw.(*invariant.TwoScalar)
	require.True(t, ok)
	require.NotNil(t, tw.Linear)
	assert.Equal(t, "2", tw.Linear.A.String())
	assert.Equal(t, "1", tw.Linear.B.String())

	y := p.Registry.At(1)
	ySingle, ok := y.Invariant.(*invariant.SingleScalar)
	require.True(t, ok)
	assert.Equal(t, "3", ySingle.Min.String())
}

func TestDriverRunConvergesWithoutTernaryByDefault(t *testing.T) {
	p := buildPoint(10)
	opts := engine.DefaultOptions()
	opts.NoTernaryInvariants = true
	d := engine.NewDriver(opts, nil)

	d.Run(p)

	assert.Equal(t, p.Registry.Len(), p.K2)
}

func TestDriverRunRecordsSampleStats(t *testing.T) {
	p := buildPoint(5)
	collector := stats.NewCollector()
	d := engine.NewDriver(engine.DefaultOptions(), collector)

	d.Run(p)

	snap := collector.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 5, snap[0].Samples)
}
