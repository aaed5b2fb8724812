package gf2

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

// ErrRankDeficient is returned when a matrix expected to have full column rank does not.
var ErrRankDeficient = errors.New("matrix does not have full column rank")

func newBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.New(total)
	bar.Set("prefix", prefix)
	bar.SetWriter(os.Stdout)
	if logrus.GetLevel() == logrus.DebugLevel {
		bar.Start()
	}
	return bar
}

func finishBar(bar *pb.ProgressBar) {
	bar.SetTemplateString(`{{string . "prefix"}}{{counters . }}{{string . "suffix"}}`)
	bar.Set("suffix", " Done")
	bar.Finish()
}

//GaussElimination reduces tG (n x k) to row echelon form over GF(2) while
// applying the same row operations to x. The inputs are not modified.
// If tG does not have full column rank an error wrapping ErrRankDeficient is returned.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func GaussElimination(ctx context.Context, tG mat.SparseMat, x mat.SparseVector, threads int) (mat.SparseMat, mat.SparseVector, error) {
	rows, cols := tG.Dims()
	if x.Len() != rows {
		panic(fmt.Sprintf("vector length == %v is required but found %v", rows, x.Len()))
	}
	if cols > rows {
		return nil, nil, fmt.Errorf("%w: %v columns but only %v rows", ErrRankDeficient, cols, rows)
	}

	A := mat.CSRMatCopy(tG)
	b := mat.CSRVecCopy(x)

	logrus.Debugf("Row echelon")
	bar := newBar(cols, "Processing Column ")
	for c := 0; c < cols; c++ {
		select {
		case <-ctx.Done():
			bar.Finish()
			return nil, nil, ctx.Err()
		default:
		}
		bar.Increment()

		pivot := pivotRow(A, c, c)
		if pivot == -1 {
			bar.Finish()
			return nil, nil, fmt.Errorf("%w: no pivot found for column %v", ErrRankDeficient, c)
		}
		if pivot != c {
			A.SwapRows(c, pivot)
			swapEntries(b, c, pivot)
		}

		eliminateLowerRows(ctx, c, c, A, b, threads)
	}
	finishBar(bar)

	return A, b, nil
}

//Message recovers the k bit message from a codeword x of the code whose
// systematic generator transpose is tG (n x k), by back substitution over
// the eliminated system.
func Message(ctx context.Context, tG mat.SparseMat, x mat.SparseVector, threads int) (mat.SparseVector, error) {
	_, k := tG.Dims()
	rtG, rx, err := GaussElimination(ctx, tG, x, threads)
	if err != nil {
		return nil, err
	}

	message := mat.CSRVec(k)
	if k == 0 {
		return message, nil
	}

	message.Set(k-1, rx.At(k-1))
	for i := k - 2; i >= 0; i-- {
		// the echelon row is zero left of i and message is still zero at i,
		// so the full dot product only sees columns i+1..k-1
		message.Set(i, (rx.At(i)+rtG.Row(i).Dot(message))%2)
	}
	return message, nil
}

//Rank returns the rank of A over GF(2).
func Rank(ctx context.Context, A mat.SparseMat, threads int) int {
	if A == nil {
		return -1
	}
	rows, cols := A.Dims()
	tmp := mat.CSRMatCopy(A)

	rank := 0
	for c := 0; c < cols && rank < rows; c++ {
		select {
		case <-ctx.Done():
			return -1
		default:
		}

		pivot := pivotRow(tmp, c, rank)
		if pivot == -1 {
			continue
		}
		if pivot != rank {
			tmp.SwapRows(rank, pivot)
		}
		eliminateLowerRows(ctx, rank, c, tmp, nil, threads)
		rank++
	}
	return rank
}

// pivotRow finds the first row >= fromRow with a one in column col.
func pivotRow(A mat.SparseMat, col, fromRow int) int {
	for _, r := range A.Column(col).NonzeroArray() {
		if r >= fromRow {
			return r
		}
	}
	return -1
}

func swapEntries(b mat.SparseVector, i, j int) {
	bi := b.At(i)
	b.Set(i, b.At(j))
	b.Set(j, bi)
}

// eliminateLowerRows clears column col below rowIndex by adding the pivot row
// (in GF2 subtract is add). When b is not nil it receives the same row operations.
func eliminateLowerRows(ctx context.Context, rowIndex, col int, A mat.SparseMat, b mat.SparseVector, threads int) {
	pivots := A.Column(col).NonzeroArray()
	pool := threadpool.New(ctx, threads)
	rrow := A.Row(rowIndex)
	flip := b != nil && b.At(rowIndex) == 1
	mut := sync.RWMutex{}

	for _, index := range pivots {
		if index <= rowIndex {
			continue
		}
		p := index
		pool.Add(func() {
			mut.RLock()
			prow := A.Row(p)
			mut.RUnlock()
			prow.Add(prow, rrow)
			mut.Lock()
			A.SetRow(p, prow)
			if flip {
				b.Set(p, b.At(p)+1)
			}
			mut.Unlock()
		})
	}
	pool.Wait()
}
