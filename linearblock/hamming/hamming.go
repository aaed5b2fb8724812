package hamming

import (
	"fmt"
	"math/bits"

	"github.com/nathanhack/ldpcbp/linearblock"
	mat "github.com/nathanhack/sparsemat"
)

// New creates the systematic hamming code with paritySymbols number of parity symbols.
// Hamming codes can detect up to two-bit errors or correct one-bit errors without
// detection of uncorrected errors.
//
// H=[A,I] and TG=[I;A] where the columns of A are the binary forms of every
// number in [1,n] with two or more ones, in increasing order.
func New(paritySymbols int) (*linearblock.Code, error) {
	if paritySymbols < 3 {
		return nil, fmt.Errorf("hamming codes require >=3 parity symbols but found %v", paritySymbols)
	}
	n := 1<<paritySymbols - 1
	k := n - paritySymbols

	A := mat.CSRMat(paritySymbols, k)
	col := 0
	for i := 1; i <= n; i++ {
		if bits.OnesCount(uint(i)) < 2 {
			continue
		}
		vec := mat.CSRVec(paritySymbols)
		for j := 0; j < paritySymbols; j++ {
			if i&(1<<j) > 0 {
				vec.Set(j, 1)
			}
		}
		A.SetColumn(col, vec)
		col++
	}

	H := mat.CSRMat(paritySymbols, n)
	H.SetMatrix(A, 0, 0)
	H.SetMatrix(mat.CSRIdentity(paritySymbols), 0, k)

	TG := mat.CSRMat(n, k)
	TG.SetMatrix(mat.CSRIdentity(k), 0, 0)
	TG.SetMatrix(A, k, 0)

	return &linearblock.Code{H: H, TG: TG}, nil
}
