package model

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddVariableStableIndex(t *testing.T) {
	r := NewRegistry()
	i0 := r.AddVariable("x", Scalar)
	i1 := r.AddVariable("A", Sequence)
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "x", r.At(0).Name)
	assert.Equal(t, Sequence, r.At(1).Kind)
}

func TestIsCanonical(t *testing.T) {
	r := NewRegistry()
	r.AddVariable("x", Scalar)
	r.AddVariable("y", Scalar)
	require.True(t, r.At(0).IsCanonical())
	require.True(t, r.At(1).IsCanonical())

	r.UnionEqual(0, 1)
	assert.True(t, r.At(0).IsCanonical())
	assert.False(t, r.At(1).IsCanonical())
}

func TestUnionEqualSymmetricAndTransitive(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"a", "b", "c", "d"} {
		r.AddVariable(n, Scalar)
	}
	r.UnionEqual(0, 1)
	r.UnionEqual(2, 3)
	r.UnionEqual(1, 2)

	// spec.md §3 invariant #4: equal_to is maintained symmetrically.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				continue
			}
			assert.Contains(t, r.At(i).EqualTo, j, "expected %d in equal_to of %d", j, i)
		}
	}
	assert.True(t, r.At(0).IsCanonical())
	assert.False(t, r.At(1).IsCanonical())
	assert.False(t, r.At(2).IsCanonical())
	assert.False(t, r.At(3).IsCanonical())
}

func TestClearInvariantsPreservesVariablesAndValues(t *testing.T) {
	r := NewRegistry()
	r.AddVariable("x", Scalar)
	r.At(0).Invariant = "placeholder"
	r.At(0).SetPairInvariant(1, "pair-placeholder")

	tab := NewTabulator()
	tab.Accumulate([]Value{Int(3)})

	r.ClearAllInvariants()

	assert.Nil(t, r.At(0).Invariant)
	assert.Nil(t, r.At(0).Invariants)
	assert.Equal(t, 1, r.Len(), "variables must survive ClearInvariants")
	assert.Equal(t, 1, tab.Samples(), "values must survive ClearInvariants")
}

func TestTabulatorAccumulateMergesDuplicates(t *testing.T) {
	tab := NewTabulator()
	tab.Accumulate([]Value{Int(1), Int(2)})
	tab.Accumulate([]Value{Int(1), Int(2)})
	tab.Accumulate([]Value{Int(3), Int(4)})

	assert.Equal(t, 2, tab.Distinct())
	assert.Equal(t, 3, tab.Samples())

	seen := map[string]int{}
	tab.Each(func(tuple []Value, count int) {
		seen[tupleKey(tuple)] = count
	})
	assert.Equal(t, 2, seen[tupleKey([]Value{Int(1), Int(2)})])
	assert.Equal(t, 1, seen[tupleKey([]Value{Int(3), Int(4)})])
}

func TestTabulatorExtendAllPreservesArityAndCounts(t *testing.T) {
	tab := NewTabulator()
	tab.Accumulate([]Value{Int(1)})
	tab.Accumulate([]Value{Int(-1)})
	tab.Accumulate([]Value{Int(2)})

	// Extend with abs(x); 1 and -1 both project to 1, but the original
	// slot is kept, so [1 1], [-1 1] and [2 2] remain three distinct tuples.
	tab.ExtendAll(func(tuple []Value) Value {
		x := tuple[0].Int
		abs := new(big.Int).Abs(x)
		return BigInt(abs)
	})

	assert.Equal(t, 2, tab.Arity())
	assert.Equal(t, 3, tab.Distinct())

	total := 0
	tab.Each(func(tuple []Value, count int) {
		require.Len(t, tuple, 2)
		total += count
	})
	assert.Equal(t, 3, total, "extending must preserve total sample count")
}

func TestValueSequenceMissingFirstElement(t *testing.T) {
	seq := Sequence([]Value{Missing(), Int(1)})
	assert.True(t, seq.Missing)
	assert.True(t, seq.Seq)
}

func TestValueEqualAndKey(t *testing.T) {
	a := Sequence([]Value{Int(1), Int(2)})
	b := Sequence([]Value{Int(1), Int(2)})
	c := Sequence([]Value{Int(1), Int(3)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
