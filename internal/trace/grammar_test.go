package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamListWithSequenceSuffix(t *testing.T) {
	ast, err := ParseParamList("a, b[]")
	require.NoError(t, err)
	require.Len(t, ast.Params, 2)
	assert.Equal(t, "a", ast.Params[0].Name)
	assert.False(t, ast.Params[0].Seq)
	assert.Equal(t, "b", ast.Params[1].Name)
	assert.True(t, ast.Params[1].Seq)
}

func TestParseValueVariants(t *testing.T) {
	v, ok := ParseEntryValue("42")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.Int.Int64())

	v, ok = ParseEntryValue("-7")
	require.True(t, ok)
	assert.Equal(t, int64(-7), v.Int.Int64())

	v, ok = ParseEntryValue("uninit")
	require.True(t, ok)
	assert.True(t, v.Missing)

	v, ok = ParseEntryValue("NIL")
	require.True(t, ok)
	assert.Equal(t, int64(0), v.Int.Int64())

	v, ok = ParseEntryValue("#( 1 2 3 )")
	require.True(t, ok)
	assert.True(t, v.Seq)
	assert.Equal(t, 3, v.Len())

	_, ok = ParseEntryValue("not-a-value!!")
	assert.False(t, ok)
}

func TestParseValueRoundsDecimals(t *testing.T) {
	v, ok := ParseEntryValue("3.0")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Int.Int64())

	v, ok = ParseEntryValue("3.6")
	require.True(t, ok)
	assert.Equal(t, int64(4), v.Int.Int64())

	v, ok = ParseEntryValue("-3.6")
	require.True(t, ok)
	assert.Equal(t, int64(-4), v.Int.Int64())
}

func TestParseValueSequenceOfUninitIsMissingSequence(t *testing.T) {
	v, ok := ParseEntryValue("#( uninit 1 2 )")
	require.True(t, ok)
	assert.True(t, v.Seq)
	assert.True(t, v.Missing)
}
