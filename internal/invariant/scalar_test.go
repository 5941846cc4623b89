package invariant

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"dinv/internal/model"
)

func rowsOf(vals ...int64) []Row {
	rows := make([]Row, len(vals))
	for i, v := range vals {
		rows[i] = Row{Values: []model.Value{model.Int(v)}, Count: 1}
	}
	return rows
}

// modulusSamples returns n values of the form base + k*m, k=0..n-1.
func modulusSamples(base, m int64, n int) []int64 {
	out := make([]int64, n)
	for k := 0; k < n; k++ {
		out[k] = base + int64(k)*m
	}
	return out
}

// TestBuildSingleScalarFindsModulus exercises spec.md's modulus scenario:
// every observed value is congruent to a fixed residue mod a fixed
// modulus, derived as the gcd of pairwise differences, and reported only
// once justified at the default confidence (spec.md §4.4: modulus is a
// negative property gated by (1-p)^samples < 0.01 exactly like != 0 and
// nonmodulus). p = 1/4 here needs at least 17 samples to clear alpha=0.01;
// 20 comfortably does.
func TestBuildSingleScalarFindsModulus(t *testing.T) {
	v := &model.VarInfo{Name: "x"}
	rows := rowsOf(modulusSamples(3, 4, 20)...)
	opts := DefaultOptions()

	s := BuildSingleScalar(v, rows, opts)

	assert.NotNil(t, s.Modulus)
	assert.Equal(t, int64(4), s.Modulus.M)
	assert.Equal(t, int64(3), s.Modulus.R)
	assert.Equal(t, big.NewInt(3), s.Min)
	assert.Equal(t, big.NewInt(79), s.Max)
	assert.False(t, s.IsUnconstrained())
	assert.Contains(t, s.Format(nil), "mod 4")
}

// TestBuildSingleScalarSuppressesUnjustifiedModulus covers the same
// residue pattern with too few samples to clear the confidence test:
// the modulus must not be reported as fact.
func TestBuildSingleScalarSuppressesUnjustifiedModulus(t *testing.T) {
	v := &model.VarInfo{Name: "x"}
	rows := rowsOf(modulusSamples(3, 4, 5)...)
	opts := DefaultOptions()

	s := BuildSingleScalar(v, rows, opts)

	assert.Nil(t, s.Modulus)
	assert.NotContains(t, s.Format(nil), "mod")
}

func TestBuildSingleScalarAllMissingIsUnconstrained(t *testing.T) {
	v := &model.VarInfo{Name: "x"}
	rows := []Row{
		{Values: []model.Value{model.Missing()}, Count: 1},
		{Values: []model.Value{model.Missing()}, Count: 1},
	}
	s := BuildSingleScalar(v, rows, DefaultOptions())

	assert.True(t, s.Unconstrained)
	assert.True(t, s.IsUnconstrained())
	assert.Equal(t, "", s.Format(nil))
}

func TestBuildSingleScalarFormatsExactRange(t *testing.T) {
	v := &model.VarInfo{Name: "x"}
	rows := rowsOf(5, 5, 5)
	s := BuildSingleScalar(v, rows, DefaultOptions())

	assert.Equal(t, "= 5", s.Format(nil))
}
