package llr

import (
	"math"
	"testing"

	mat "github.com/nathanhack/sparsemat"
	"github.com/stretchr/testify/require"
	mat2 "gonum.org/v1/gonum/mat"
)

func TestFromChannel(t *testing.T) {
	y := mat2.NewDense(3, 2, []float64{1, -1, 0.5, 0, -2, 3})

	lc := FromChannel(y, 0)
	require.True(t, mat2.Equal(lc, mat2.NewDense(3, 2, []float64{2, -2, 1, 0, -4, 6})))

	// 10 dB is a variance of 0.1
	lc = FromChannel(y, 10)
	require.InDelta(t, 20, lc.At(0, 0), 1e-9)
	require.InDelta(t, -40, lc.At(2, 0), 1e-9)
}

func TestSoftLimit(t *testing.T) {
	l := mat2.NewDense(1, 5, []float64{-100, -1, 0, 1, 100})

	// rho == 0 only clips
	clipped := SoftLimit(l, 50, 0)
	require.InDeltaSlice(t, []float64{-50, -1, 0, 1, 50}, clipped.RawRowView(0), 1e-9)

	limited := SoftLimit(l, 50, 0.1)
	row := limited.RawRowView(0)
	bound := math.Log(0.9 / 0.1)
	for i, v := range row {
		require.LessOrEqual(t, math.Abs(v), bound+1e-9, "index %v", i)
	}
	require.InDelta(t, 0, row[2], 1e-12)
	// odd symmetry of the transform
	require.InDelta(t, -row[3], row[1], 1e-12)
	require.InDelta(t, bound, row[4], 1e-9)
	require.InDelta(t, -bound, row[0], 1e-9)

	// a tiny rho keeps the numerator of -50 under the threshold so only the clip happens
	limited = SoftLimit(l, 50, 1e-5)
	require.Equal(t, -50.0, limited.At(0, 0))
	require.Less(t, limited.At(0, 4), 50.0)
}

func TestHardDecision(t *testing.T) {
	x := HardDecision(mat2.NewDense(4, 1, []float64{1.5, -0.1, 0, 3}))
	require.True(t, x.Equals(mat.CSRMat(4, 1, 0, 1, 1, 0)))
}

func TestInterleave_RoundTrip(t *testing.T) {
	x := make([]float64, 257)
	for i := range x {
		x[i] = float64(i) * 0.5
	}

	for _, seed := range []uint64{0, 1, 42, 1 << 40} {
		y, pattern := Interleave(x, seed)
		require.Len(t, pattern, len(x))
		require.ElementsMatch(t, x, y)

		back, err := Deinterleave(y, pattern)
		require.NoError(t, err)
		require.Equal(t, x, back)

		// the same seed reproduces the pattern
		_, again := Interleave(x, seed)
		require.Equal(t, pattern, again)

		// a paired sequence follows the same permutation
		bits := make([]int, len(x))
		for i := range bits {
			bits[i] = i % 2
		}
		paired, err := InterleaveWith(bits, pattern)
		require.NoError(t, err)
		for i, p := range pattern {
			require.Equal(t, bits[i], paired[p])
		}
	}
}

func TestInterleave_Errors(t *testing.T) {
	_, err := InterleaveWith([]int{1, 2, 3}, []int{0, 1})
	require.ErrorIs(t, err, ErrPattern)

	_, err = Deinterleave([]int{1, 2, 3}, []int{0, 1, 1})
	require.ErrorIs(t, err, ErrPattern)

	_, err = Deinterleave([]int{1, 2, 3}, []int{0, 1, 3})
	require.ErrorIs(t, err, ErrPattern)
}

func TestBitErrorRate(t *testing.T) {
	require.Equal(t, 0.0, BitErrorRate([]float64{0, 1, 1}, []float64{0, 1, 1}))
	require.Equal(t, 0.5, BitErrorRate([]float64{0, 1, 1, 0}, []float64{1, 1, 0, 0}))
	require.Equal(t, 0.0, BitErrorRate(nil, []float64{}))
	require.Panics(t, func() { BitErrorRate([]float64{0}, []float64{0, 1}) })
}
