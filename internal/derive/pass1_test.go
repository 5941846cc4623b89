package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinv/internal/model"
)

func TestPass1FromSequenceAppendsSize(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1), model.Int(2), model.Int(3)})})
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(4), model.Int(5), model.Int(6)})})

	ctx := &Context{Reg: reg, Tab: tab}
	changed := Pass1.RunSeed(ctx, a)
	require.True(t, changed)

	require.Equal(t, 2, reg.Len())
	sizeVar := reg.At(1)
	assert.Equal(t, "size(A)", sizeVar.Name)
	assert.True(t, sizeVar.IsDerived)
	assert.Equal(t, model.IndexLen(1), reg.At(a).DerivedLen)
	assert.Equal(t, 2, tab.Arity())

	tab.Each(func(tuple []model.Value, count int) {
		assert.Equal(t, int64(3), tuple[1].Int.Int64())
	})
}

func TestPass1IdempotentWhenSizeAlreadyPresent(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.Sequence([]model.Value{model.Int(1)})})
	ctx := &Context{Reg: reg, Tab: tab}

	require.True(t, Pass1.RunSeed(ctx, a))
	assert.False(t, Pass1.RunSeed(ctx, a), "second invocation must not re-append size(A)")
	assert.Equal(t, 2, reg.Len())
}

func TestPass1MissingSequenceProducesMissingSize(t *testing.T) {
	reg := model.NewRegistry()
	a := reg.AddVariable("A", model.Sequence)
	tab := model.NewTabulator()
	tab.Accumulate([]model.Value{model.MissingSeq()})
	ctx := &Context{Reg: reg, Tab: tab}
	Pass1.RunSeed(ctx, a)

	tab.Each(func(tuple []model.Value, count int) {
		assert.True(t, tuple[1].Missing)
	})
}
