package benchmarking

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/ldpcbp/linearblock"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/bp"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	mat2 "gonum.org/v1/gonum/mat"
)

type Stats struct {
	ChannelCodewordError avgstd.AvgStd // probability of a bit error after channel errors are fixed
	ChannelMessageError  avgstd.AvgStd // probability of a bit error after channel errors are fixed
	ChannelParityError   avgstd.AvgStd // probability of a bit error after channel errors are fixed
	Iterations           avgstd.AvgStd // belief propagation sweeps per decode
	Unconverged          int           // decodes that ran out of iterations
}

func (s Stats) String() string {
	return fmt.Sprintf("{Codeword:%0.02f(+/-%0.02f), Message:%0.02f(+/-%0.02f), Parity:%0.02f(+/-%0.02f), Iterations:%0.02f, Unconverged:%v}",
		s.ChannelCodewordError.Mean, math.Sqrt(s.ChannelCodewordError.SampledVariance()),
		s.ChannelMessageError.Mean, math.Sqrt(s.ChannelMessageError.SampledVariance()),
		s.ChannelParityError.Mean, math.Sqrt(s.ChannelParityError.SampledVariance()),
		s.Iterations.Mean, s.Unconverged,
	)
}

type Checkpoints func(updatedStats Stats)

type BinaryMessageConstructor func(trial int) (message mat.SparseVector)

//specific to BPSK over AWGN
type BPSKChannelEncoder func(message mat.SparseVector) (codeword mat.SparseVector)
type AWGNChannel func(trial int, bpsk mat2.Vector) (received mat2.Vector)
type AWGNChannelCorrection func(received mat2.Vector) (fixed mat.SparseVector, iterations int, converged bool)
type AWGNChannelMetrics func(originalMessage, originalCodeword, fixed mat.SparseVector) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64)

func BenchmarkAWGN(ctx context.Context,
	trials int, threads int,
	createMessage BinaryMessageConstructor,
	encode BPSKChannelEncoder,
	channel AWGNChannel,
	codewordRepair AWGNChannelCorrection,
	metrics AWGNChannelMetrics,
	checkpoints Checkpoints, showProgress bool) Stats {
	return BenchmarkAWGNContinueStats(ctx, trials, threads, createMessage, encode, channel, codewordRepair, metrics, checkpoints, Stats{}, showProgress)
}

func BenchmarkAWGNContinueStats(ctx context.Context,
	trials int, threads int,
	createMessage BinaryMessageConstructor,
	encode BPSKChannelEncoder,
	channel AWGNChannel,
	codewordRepair AWGNChannelCorrection,
	metrics AWGNChannelMetrics,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	trialsToRun := trials - previousStats.ChannelCodewordError.Count
	if trialsToRun <= 0 {
		return previousStats
	}

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(trialsToRun)
	}
	pool := threadpool.NewFixedSize(ctx, threads, trialsToRun)
	statsMux := sync.Mutex{}

	trial := func(i int) {
		if showProgress {
			bar.Increment()
		}
		//we create a random message
		message := createMessage(i)

		// encode to get our codeword
		codeword := encode(message)

		// modulate and send through the channel
		received := channel(i, BitsToBPSK(codeword))

		// repair the codeword (if possible)
		repaired, iterations, converged := codewordRepair(received)

		// get metrics
		percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors := metrics(message, codeword, repaired)

		statsMux.Lock()
		previousStats.ChannelCodewordError.Update(percentFixedCodewordErrors)
		previousStats.ChannelMessageError.Update(percentFixedMessageErrors)
		previousStats.ChannelParityError.Update(percentFixedParityErrors)
		previousStats.Iterations.Update(float64(iterations))
		if !converged {
			previousStats.Unconverged++
		}

		if checkpoints != nil {
			checkpoints(previousStats) //give them the updated checkpoint
		}
		statsMux.Unlock()
	}

	for i := previousStats.ChannelCodewordError.Count; i < trials; i++ {
		tmp := i
		pool.Add(func() { trial(tmp) })
	}
	pool.Wait()
	if showProgress {
		bar.Finish()
	}
	return previousStats
}

//DecoderCorrection repairs received words with belief propagation at a known snr.
func DecoderCorrection(ctx context.Context, decoder *bp.Decoder, snr float64, maxIter int) AWGNChannelCorrection {
	return func(received mat2.Vector) (mat.SparseVector, int, bool) {
		fixed, result, err := decoder.DecodeVec(ctx, received, snr, maxIter)
		if err != nil {
			// only cancellation reaches here, count it as a failed decode
			return BPSKToBits(received), maxIter, false
		}
		return fixed, result.Iterations, result.Converged
	}
}

//CodeMetrics compares the repaired codeword against the original. Codes without a
// generator carry no message so the message error is the codeword error.
func CodeMetrics(ctx context.Context, code *linearblock.Code) AWGNChannelMetrics {
	return func(originalMessage, originalCodeword, fixed mat.SparseVector) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64) {
		codewordErrors := originalCodeword.HammingDistance(fixed)
		percentFixedCodewordErrors = float64(codewordErrors) / float64(code.CodewordLength())

		if code.TG == nil {
			return percentFixedCodewordErrors, percentFixedCodewordErrors, percentFixedCodewordErrors
		}

		messageErrors := code.MessageLength()
		message, err := code.Message(ctx, fixed, 1)
		if err == nil {
			messageErrors = message.HammingDistance(originalMessage)
		}
		parityErrors := 0
		for i := code.MessageLength(); i < code.CodewordLength(); i++ {
			if originalCodeword.At(i) != fixed.At(i) {
				parityErrors++
			}
		}

		percentFixedMessageErrors = float64(messageErrors) / float64(code.MessageLength())
		percentFixedParityErrors = float64(parityErrors) / float64(code.ParitySymbols())
		return
	}
}

//BitsToBPSK converts a [0,1] vector to a [+1,-1] vector, a zero bit is sent as +1
func BitsToBPSK(a mat.SparseVector) mat2.Vector {
	output := mat2.NewVecDense(a.Len(), nil)

	for i := 0; i < a.Len(); i++ {
		if a.At(i) > 0 {
			output.SetVec(i, -1)
		} else {
			output.SetVec(i, 1)
		}
	}

	return output
}

//BPSKToBits converts a BPSK vector to sparse vector [0,1].
// Values <= 0 will be considered a 1, otherwise a 0.
func BPSKToBits(a mat2.Vector) mat.SparseVector {
	result := mat.CSRVec(a.Len())

	for i := 0; i < a.Len(); i++ {
		if a.AtVec(i) <= 0 {
			result.Set(i, 1)
		}
	}
	return result
}

//HammingDistanceBPSK calculates number of bits different.
// Assumes <=0 is 1 and >0 is 0
// If a and b are different sizes it assumes they are
// both aligned with the zero index (the difference is at the end)
func HammingDistanceBPSK(a, b mat2.Vector) int {
	min := a.Len()
	max := b.Len()
	if min > max {
		min = b.Len()
		max = a.Len()
	}

	count := 0
	for i := 0; i < min; i++ {
		aOne := a.AtVec(i) <= 0
		bOne := b.AtVec(i) <= 0
		if aOne != bOne {
			count++
		}
	}
	return max - min + count
}
