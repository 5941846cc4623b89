package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinv/internal/model"
)

func TestOrigStacksLIFO(t *testing.T) {
	o := newOrigStacks()
	o.push("F", []string{"x"}, []model.Kind{model.Scalar}, []model.Value{model.Int(1)})
	o.push("F", []string{"x"}, []model.Kind{model.Scalar}, []model.Value{model.Int(2)})

	names, kinds := o.params("F")
	require.Equal(t, []string{"x"}, names)
	require.Equal(t, []model.Kind{model.Scalar}, kinds)

	inner := o.pop("F")
	require.Len(t, inner, 1)
	assert.Equal(t, int64(2), inner[0].Int.Int64())

	outer := o.pop("F")
	require.Len(t, outer, 1)
	assert.Equal(t, int64(1), outer[0].Int.Int64())

	assert.Nil(t, o.pop("F"))
}

func TestOrigStacksUnknownFunctionHasNoParams(t *testing.T) {
	o := newOrigStacks()
	names, kinds := o.params("Missing")
	assert.Nil(t, names)
	assert.Nil(t, kinds)
	assert.Nil(t, o.pop("Missing"))
}
