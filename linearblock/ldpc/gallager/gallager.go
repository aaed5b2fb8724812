package gallager

import (
	"context"
	"fmt"

	"github.com/nathanhack/ldpcbp/linearblock"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/tanner"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

//Search looks for a regular Gallager parity-check matrix with m checks, column weight (wc) and row weight (wr)
// whose Tanner graph has no cycle shorter than smallestCycleAllowed. The returned code has no generator,
// it is meant for decoding the all-zero codeword or for codewords produced elsewhere.
func Search(ctx context.Context, m, wc, wr, smallestCycleAllowed, maxIter, threads int) (code *linearblock.Code, err error) {
	if 3 > wc {
		return nil, fmt.Errorf("wc must be greater than or equal to 3")
	}
	if wc >= wr {
		return nil, fmt.Errorf("wc (%v) must be less than wr (%v)", wc, wr)
	}
	if m%wc != 0 {
		return nil, fmt.Errorf("wc (%v) must divide m (%v)", wc, m)
	}
	if smallestCycleAllowed%2 != 0 {
		return nil, fmt.Errorf("smallestCycle must be an even number")
	}
	if smallestCycleAllowed < 4 {
		return nil, fmt.Errorf("smallestCycle must at least 4")
	}
	if maxIter < 1 {
		return nil, fmt.Errorf("maxIter must be at least 1")
	}

	N := m / wc * wr
	K := m / wc
	// Prepare a HPrime used to create all H'subs
	HPrime := mat.DOKMat(K, N)
	for i := 0; i < K; i++ {
		offset := i * wr
		for col := 0; col < wr; col++ {
			HPrime.Set(i, col+offset, 1)
		}
	}

	iter := maxIter
	for iter > 0 {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		iter, code, err = search(ctx, N, m, wc, iter, smallestCycleAllowed, threads, HPrime)
	}
	return
}

func search(ctx context.Context, N, m, wc, iter, smallestCycleAllowed, threads int, HPrime mat.SparseMat) (int, *linearblock.Code, error) {
	//make the real parity matrix, we'll fill it with the
	// correct data next
	H := mat.DOKMat(m, N)

	// H is made of wc subs
	// the first sub == HPrime
	// the others are column permutations of HPrime
	// a sub that closes a cycle shorter than
	// smallestCycleAllowed is drawn again

	s := 0
	for s < wc && iter > 0 {
		iter--
		logrus.Debugf("Iterations remaining %v", iter)
		sub := HPrime
		if s > 0 {
			sub = permuteColumns(HPrime)
		}
		setSubH(H, sub, s)

		if smallestCycleAllowed > 4 {
			g, err := tanner.New(H)
			if err != nil {
				return iter, nil, err
			}
			calGirth := g.GirthLowerBound(ctx, smallestCycleAllowed, threads)
			if -1 < calGirth && calGirth < smallestCycleAllowed {
				continue
			}
		}
		s++
	}
	if s != wc {
		return iter, nil, fmt.Errorf("failed to find a solution")
	}
	logrus.Debugf("Gallager H Matrix found")

	return 0, &linearblock.Code{H: mat.CSRMatCopy(H)}, nil
}

func permuteColumns(H mat.SparseMat) mat.SparseMat {
	rows, cols := H.Dims()
	result := mat.DOKMat(rows, cols)

	//make indices to do permutation
	for i, col := range rand.Perm(cols) {
		result.SetColumn(i, H.Column(col))
	}

	return result
}

func setSubH(H, Hsub mat.SparseMat, index int) {
	K, _ := Hsub.Dims()
	offset := index * K
	H.SetMatrix(Hsub, offset, 0)
}
