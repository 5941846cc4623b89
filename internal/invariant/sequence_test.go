package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dinv/internal/model"
)

func seqRow(elems ...int64) Row {
	vals := make([]model.Value, len(elems))
	for i, e := range elems {
		vals[i] = model.Int(e)
	}
	return Row{Values: []model.Value{model.Sequence(vals)}, Count: 1}
}

func TestBuildSingleSequenceNonDecreasingAndElements(t *testing.T) {
	v := &model.VarInfo{Name: "a"}
	rows := []Row{
		seqRow(1, 2, 4),
		seqRow(2, 2, 9),
		seqRow(0, 3, 3),
	}

	s := BuildSingleSequence(v, rows, DefaultOptions())

	assert.True(t, s.NonDecreasing)
	assert.False(t, s.NonIncreasing)
	assert.False(t, s.EltsEqual)
	if assert.NotNil(t, s.AllIndexSNI) {
		assert.Equal(t, "0", s.AllIndexSNI.Min.String())
		assert.Equal(t, "9", s.AllIndexSNI.Max.String())
	}
}

func TestBuildSingleSequenceAllMissingIsUnconstrained(t *testing.T) {
	v := &model.VarInfo{Name: "a"}
	rows := []Row{
		{Values: []model.Value{model.MissingSeq()}, Count: 1},
	}

	s := BuildSingleSequence(v, rows, DefaultOptions())

	assert.True(t, s.Unconstrained)
	assert.True(t, s.IsUnconstrained())
}

func TestBuildSingleSequenceEltsEqual(t *testing.T) {
	v := &model.VarInfo{Name: "a"}
	rows := []Row{
		seqRow(5, 5, 5),
		seqRow(7, 7, 7),
	}

	s := BuildSingleSequence(v, rows, DefaultOptions())

	assert.True(t, s.EltsEqual)
	assert.True(t, s.NonDecreasing)
	assert.True(t, s.NonIncreasing)
}
