package derive

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinv/internal/invariant"
	"dinv/internal/model"
)

func TestPass2FromSequenceAggregates(t *testing.T) {
	// S3 (spec.md §8): A has samples (1,2,3) and (4,5,6); sum(A) in
	// {6, 15}, min/max derived too.
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1), model.Int(2), model.Int(3)})})
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(4), model.Int(5), model.Int(6)})})

	ctx := &Context{Reg: reg, Tab: tab}
	require.True(t, Pass2.RunSeed(ctx, a))

	require.Equal(t, 4, reg.Len())
	assert.Equal(t, "sum(A)", reg.At(1).Name)
	assert.Equal(t, "min(A)", reg.At(2).Name)
	assert.Equal(t, "max(A)", reg.At(3).Name)

	sums := map[int64]bool{}
	tab.Each(func(tuple []model.Value, count int) {
		sums[tuple[1].Int.Int64()] = true
		if tuple[0].Elems[0].Int.Int64() == 1 {
			assert.Equal(t, int64(1), tuple[2].Int.Int64())
			assert.Equal(t, int64(3), tuple[3].Int.Int64())
		}
	})
	assert.True(t, sums[6])
	assert.True(t, sums[15])
}

func TestPass2EmptySequenceAggregates(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence(nil)})

	ctx := &Context{Reg: reg, Tab: tab}
	Pass2.RunSeed(ctx, a)

	tab.Each(func(tuple []model.Value, count int) {
		assert.Equal(t, int64(0), tuple[1].Int.Int64()) // sum(empty) = 0
		assert.True(t, tuple[2].Missing)                // min(empty) = missing
		assert.True(t, tuple[3].Missing)                // max(empty) = missing
	})
}

func TestPass2ElementExtractionFirstAndLast(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(10), model.Int(20), model.Int(30), model.Int(40)})})
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1), model.Int(2), model.Int(3), model.Int(4)})})

	ctx := &Context{Reg: reg, Tab: tab}
	require.True(t, Pass1.RunSeed(ctx, a))
	// Pretend the singleton-invariant phase ran and found size(A) == 4
	// in every sample, so element extraction (min(2, size.min)=2) fires.
	reg.At(1).Invariant = &invariant.SingleScalar{Min: big.NewInt(4), Max: big.NewInt(4)}

	require.True(t, Pass2.RunSeed(ctx, a))

	names := map[string]int{}
	for i, v := range reg.All() {
		names[v.Name] = i
	}
	for _, n := range []string{"A[0]", "A[1]", "A[-2]", "A[-1]"} {
		_, ok := names[n]
		assert.True(t, ok, "expected derived variable %q", n)
	}
}

func TestPass2NoElementExtractionWhenLengthEqualsL(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1), model.Int(2)})})

	ctx := &Context{Reg: reg, Tab: tab}
	require.True(t, Pass1.RunSeed(ctx, a))
	reg.At(1).Invariant = &invariant.SingleScalar{Min: big.NewInt(2), Max: big.NewInt(2)}

	Pass2.RunSeed(ctx, a)
	for _, v := range reg.All() {
		assert.NotEqual(t, "A[-1]", v.Name, "L == max must suppress the redundant last-elements set")
		assert.NotEqual(t, "A[-2]", v.Name)
	}
}

func TestPass2PrefixSlices(t *testing.T) {
	// S4 (spec.md §8): A=[10,20,30,40], n=2 and A=[7,8,9,10], n=2.
	// A[0..n] takes [10,20,30],[7,8,9]; A[0..n-1] takes [10,20],[7,8];
	// A[n] takes 30, 9.
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	n := reg.AddVariable("n", model.Scalar)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{
		model.Sequence([]model.Value{model.Int(10), model.Int(20), model.Int(30), model.Int(40)}),
		model.Int(2),
	})
	tab.Accumulate([]model.Value{
		model.Sequence([]model.Value{model.Int(7), model.Int(8), model.Int(9), model.Int(10)}),
		model.Int(2),
	})

	ctx := &Context{Reg: reg, Tab: tab}
	require.True(t, Pass1.RunSeed(ctx, a)) // size(A)
	sizeIdx := reg.At(a).DerivedLen.Index
	reg.At(sizeIdx).Invariant = &invariant.SingleScalar{Min: big.NewInt(4), Max: big.NewInt(4)}
	reg.At(n).Invariant = &invariant.SingleScalar{Min: big.NewInt(2), Max: big.NewInt(2)}

	require.True(t, Pass2.RunPair(ctx, a, n))

	var idxPrefix, idxPred, idxElem = -1, -1, -1
	for i, v := range reg.All() {
		switch v.Name {
		case "A[0..n]":
			idxPrefix = i
		case "A[0..n-1]":
			idxPred = i
		case "A[n]":
			idxElem = i
		}
	}
	require.NotEqual(t, -1, idxPrefix)
	require.NotEqual(t, -1, idxPred)
	require.NotEqual(t, -1, idxElem)

	gotPrefix := map[string]bool{}
	gotPred := map[string]bool{}
	gotElem := map[int64]bool{}
	tab.Each(func(tuple []model.Value, count int) {
		gotPrefix[tuple[idxPrefix].String()] = true
		gotPred[tuple[idxPred].String()] = true
		gotElem[tuple[idxElem].Int.Int64()] = true
	})
	assert.True(t, gotPrefix["[10 20 30]"])
	assert.True(t, gotPrefix["[7 8 9]"])
	assert.True(t, gotPred["[10 20]"])
	assert.True(t, gotPred["[7 8]"])
	assert.True(t, gotElem[30])
	assert.True(t, gotElem[9])
}

func TestPass2SkipsWhenScalarIsSizeOfSequence(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1), model.Int(2)})})
	ctx := &Context{Reg: reg, Tab: tab}
	require.True(t, Pass1.RunSeed(ctx, a))
	sizeIdx := reg.At(a).DerivedLen.Index
	reg.At(sizeIdx).Invariant = &invariant.SingleScalar{Min: big.NewInt(2), Max: big.NewInt(2)}

	assert.False(t, Pass2.RunPair(ctx, a, sizeIdx), "n exactly size(s) must be skipped")
}

func TestPass2SkipsWhenScalarIsExactConstantLE1(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	n := reg.AddVariable("n", model.Scalar)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1), model.Int(2)}), model.Int(1)})
	ctx := &Context{Reg: reg, Tab: tab}
	require.True(t, Pass1.RunSeed(ctx, a))
	reg.At(n).Invariant = &invariant.SingleScalar{Min: big.NewInt(1), Max: big.NewInt(1)}

	assert.False(t, Pass2.RunPair(ctx, a, n))
}
