package repetition

import (
	"fmt"

	"github.com/nathanhack/ldpcbp/linearblock"
	mat "github.com/nathanhack/sparsemat"
)

// New creates the length n repetition code. Each parity check ties a bit to its
// neighbor so H is the (n-1)xn chain and TG is a single column of ones.
func New(n int) (*linearblock.Code, error) {
	if n < 2 {
		return nil, fmt.Errorf("repetition codes require n >= 2 but found %v", n)
	}

	H := mat.CSRMat(n-1, n)
	for i := 0; i < n-1; i++ {
		H.Set(i, i, 1)
		H.Set(i, i+1, 1)
	}

	TG := mat.CSRMat(n, 1)
	for i := 0; i < n; i++ {
		TG.Set(i, 0, 1)
	}

	return &linearblock.Code{H: H, TG: TG}, nil
}
