package repetition

import (
	"context"
	"testing"

	mat "github.com/nathanhack/sparsemat"
	"github.com/stretchr/testify/require"
	mat2 "gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	code, err := New(5)
	require.NoError(t, err)
	require.True(t, code.Validate())
	require.Equal(t, 1, code.MessageLength())
	require.Equal(t, 4, code.ParitySymbols())
	require.Equal(t, 0.2, code.CodeRate())

	require.True(t, code.Encode(mat.CSRVec(1, 1)).Equals(mat.CSRVec(5, 1, 1, 1, 1, 1)))
	require.True(t, code.Encode(mat.CSRVec(1, 0)).IsZero())

	_, err = New(1)
	require.Error(t, err)
}

func TestDecode_Majority(t *testing.T) {
	code, err := New(5)
	require.NoError(t, err)

	// two of five symbols point the wrong way but the majority wins
	y := mat2.NewVecDense(5, []float64{-1, -1, -1, 0.8, 0.9})
	message, result, err := code.Decode(context.Background(), y, 0, 20)
	require.NoError(t, err)
	require.True(t, result.Converged)
	require.True(t, message.Equals(mat.CSRVec(1, 1)))
	require.True(t, result.Column(0).Equals(mat.CSRVec(5, 1, 1, 1, 1, 1)))
}
