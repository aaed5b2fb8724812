// Package llr converts channel observations into log-likelihood ratios and
// provides the helpers used when LLRs are exchanged between decoding stages.
//
// The sign convention is log(P(bit=0)/P(bit=1)): positive favors 0.
package llr

import (
	"errors"
	"fmt"
	"math"

	mat "github.com/nathanhack/sparsemat"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	mat2 "gonum.org/v1/gonum/mat"
)

const (
	// DefaultClip is the magnitude SoftLimit clips to when no other limit is known.
	DefaultClip = 50.0

	softLimitThreshold = 1e-3
)

// ErrPattern is returned when an interleaving pattern is not a permutation of the input indices.
var ErrPattern = errors.New("invalid interleaving pattern")

//Variance is the AWGN noise variance for an SNR given in dB with unit energy symbols.
func Variance(snr float64) float64 {
	return math.Pow(10, -snr/10)
}

//FromChannel returns Lc = 2*y/σ² where σ² = 10^(-snr/10).
func FromChannel(y mat2.Matrix, snr float64) *mat2.Dense {
	variance := Variance(snr)
	var lc mat2.Dense
	lc.Apply(func(i, j int, v float64) float64 {
		return 2 * v / variance
	}, y)
	return &lc
}

//SoftLimit clips |LLR| to clip and then applies
// log(((1-ρ)e^L+ρ)/((1-ρ)+ρe^L)) wherever the numerator is above 1e-3,
// leaving the remaining (already strongly negative) values as clipped.
func SoftLimit(l mat2.Matrix, clip, rho float64) *mat2.Dense {
	var result mat2.Dense
	result.Apply(func(i, j int, v float64) float64 {
		v = math.Max(-clip, math.Min(clip, v))
		e := math.Exp(v)
		a := (1-rho)*e + rho
		if a <= softLimitThreshold {
			return v
		}
		b := (1 - rho) + rho*e
		return math.Log(a / b)
	}, l)
	return &result
}

//HardDecision returns the codewords (one per column) with a one wherever L <= 0.
func HardDecision(l mat2.Matrix) mat.SparseMat {
	rows, cols := l.Dims()
	x := mat.CSRMat(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if l.At(i, j) <= 0 {
				x.Set(i, j, 1)
			}
		}
	}
	return x
}

//Interleave scatters x through a uniformly random permutation drawn from seed,
// y[pattern[i]] = x[i], and returns the pattern so it can be deinterleaved or
// reused on a paired sequence.
func Interleave[T any](x []T, seed uint64) ([]T, []int) {
	pattern := rand.New(rand.NewSource(seed)).Perm(len(x))
	return scatter(x, pattern), pattern
}

//InterleaveWith scatters x through a known pattern.
func InterleaveWith[T any](x []T, pattern []int) ([]T, error) {
	if err := validatePattern(len(x), pattern); err != nil {
		return nil, err
	}
	return scatter(x, pattern), nil
}

//Deinterleave undoes Interleave: y[i] = x[pattern[i]].
func Deinterleave[T any](x []T, pattern []int) ([]T, error) {
	if err := validatePattern(len(x), pattern); err != nil {
		return nil, err
	}
	y := make([]T, len(x))
	for i, p := range pattern {
		y[i] = x[p]
	}
	return y, nil
}

func scatter[T any](x []T, pattern []int) []T {
	y := make([]T, len(x))
	for i, p := range pattern {
		y[p] = x[i]
	}
	return y
}

func validatePattern(n int, pattern []int) error {
	if len(pattern) != n {
		return fmt.Errorf("%w: length == %v is required but found %v", ErrPattern, n, len(pattern))
	}
	seen := make([]bool, n)
	for i, p := range pattern {
		if p < 0 || p >= n || seen[p] {
			return fmt.Errorf("%w: index %v at position %v", ErrPattern, p, i)
		}
		seen[p] = true
	}
	return nil
}

//BitErrorRate is the mean absolute difference between two equal length bit sequences.
// Two empty sequences have no errors.
func BitErrorRate(x, y []float64) float64 {
	if len(x) != len(y) {
		panic(fmt.Sprintf("length == %v is required but found %v", len(x), len(y)))
	}
	if len(x) == 0 {
		return 0
	}
	return floats.Distance(x, y, 1) / float64(len(x))
}
