package benchmarking

import (
	"math"

	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/llr"
	mat "github.com/nathanhack/sparsemat"
	"golang.org/x/exp/rand"
	mat2 "gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomMessage creates a random message of length len.
func RandomMessage(len int, src rand.Source) mat.SparseVector {
	r := rand.New(src)
	message := mat.CSRVec(len)
	for i := 0; i < len; i++ {
		message.Set(i, r.Intn(2))
	}
	return message
}

// RandomMessageOnesCount creates a random message of length len with a hamming weight equal to min(onesCount,len)
func RandomMessageOnesCount(len int, onesCount int, src rand.Source) mat.SparseVector {
	r := rand.New(src)
	message := mat.CSRVec(len)
	for message.HammingWeight() < onesCount && message.HammingWeight() < len {
		message.Set(r.Intn(len), 1)
	}
	return message
}

// RandomFlipBitCount randomly flips min(numberOfBitsToFlip,len(input)) number of bits.
func RandomFlipBitCount(input mat.SparseVector, numberOfBitsToFlip int, src rand.Source) mat.SparseVector {
	r := rand.New(src)
	output := mat.CSRVecCopy(input)

	flip := make(map[int]bool)
	for len(flip) < numberOfBitsToFlip && len(flip) < input.Len() {
		flip[r.Intn(input.Len())] = true
	}

	for i := range flip {
		output.Set(i, output.At(i)+1)
	}
	return output
}

// RandomNoiseBPSK adds white gaussian noise to the bpsk vector for the snr (dB) passed in.
// With unit energy symbols the noise variance is σ² = 10^(-snr/10).
func RandomNoiseBPSK(bpsk mat2.Vector, snr float64, src rand.Source) mat2.Vector {
	noise := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(llr.Variance(snr)),
		Src:   src,
	}

	result := mat2.NewVecDense(bpsk.Len(), nil)
	for i := 0; i < bpsk.Len(); i++ {
		result.SetVec(i, noise.Rand())
	}
	result.AddVec(result, bpsk)
	return result
}
