package typesyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorscript/tsinfer/internal/types"
)

func TestParseType_Scalars(t *testing.T) {
	env := types.NewTypeEnv(nil)
	ty, err := ParseType(env, "int", nil)
	require.NoError(t, err)
	assert.True(t, ty.Equals(types.NewInt(types.NoSpan)))
}

func TestParseType_TensorSharesNamedDims(t *testing.T) {
	env := types.NewTypeEnv(nil)
	syms := make(Symbols)
	ty, err := ParseType(env, "tsr[b,28,b]", syms)
	require.NoError(t, err)

	tsr := ty.(*types.TTsr)
	require.Len(t, tsr.Dims, 3)
	assert.True(t, tsr.Dims[0].Equals(tsr.Dims[2]), "repeated dim name must share one variable")
	assert.True(t, tsr.Dims[1].Equals(types.NewResolvedDim(28, types.NoSpan)))
}

func TestParseType_UnderscoreAlwaysFresh(t *testing.T) {
	env := types.NewTypeEnv(nil)
	syms := make(Symbols)
	ty, err := ParseType(env, "tsr[_,_]", syms)
	require.NoError(t, err)
	tsr := ty.(*types.TTsr)
	assert.False(t, tsr.Dims[0].Equals(tsr.Dims[1]))
}

func TestParseSig_SharesDimsAcrossArrow(t *testing.T) {
	env := types.NewTypeEnv(nil)
	param, ret, err := ParseSig(env, "tsr[b,f] -> tsr[b,f]")
	require.NoError(t, err)
	assert.True(t, param.Equals(ret))
}

func TestParseSig_RejectsMissingArrow(t *testing.T) {
	env := types.NewTypeEnv(nil)
	_, _, err := ParseSig(env, "int")
	assert.Error(t, err)
}

func TestParseEquation_Basic(t *testing.T) {
	env := types.NewTypeEnv(nil)
	a, b, err := ParseEquation(env, "tsr[3,f] = tsr[b,4]")
	require.NoError(t, err)
	assert.True(t, a.(*types.TTsr).Dims[0].Equals(types.NewResolvedDim(3, types.NoSpan)))
	assert.True(t, b.(*types.TTsr).Dims[1].Equals(types.NewResolvedDim(4, types.NoSpan)))
}
