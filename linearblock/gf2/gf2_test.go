package gf2

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"
)

// systematic Hamming(7,4): H=[A|I], tG=[I;A]
var (
	hammingH  = mat.CSRMat(3, 7, 1, 1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1)
	hammingTG = mat.CSRMat(7, 4,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
		1, 1, 0, 1,
		1, 0, 1, 1,
		0, 1, 1, 1,
	)
)

func bruteSyndrome(H [][]int, x []int) []int {
	syndrome := make([]int, len(H))
	for i, row := range H {
		for j, h := range row {
			syndrome[i] ^= h & x[j]
		}
	}
	return syndrome
}

func TestInCodeVec_BruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 40; trial++ {
		t.Run(strconv.Itoa(trial), func(t *testing.T) {
			m := 1 + rng.Intn(8)
			n := 1 + rng.Intn(8)
			dense := make([][]int, m)
			H := mat.CSRMat(m, n)
			for i := range dense {
				dense[i] = make([]int, n)
				for j := range dense[i] {
					dense[i][j] = rng.Intn(2)
					H.Set(i, j, dense[i][j])
				}
			}

			// every word of length n, so both outcomes are exercised
			for w := 0; w < 1<<n; w++ {
				bits := make([]int, n)
				x := mat.CSRVec(n)
				for j := 0; j < n; j++ {
					bits[j] = (w >> j) & 1
					x.Set(j, bits[j])
				}

				expected := bruteSyndrome(dense, bits)
				zero := true
				product := BinaryProductVec(H, x)
				for i, s := range expected {
					if s != 0 {
						zero = false
					}
					if product.At(i) != s {
						t.Fatalf("expected syndrome %v but found %v", expected, product)
					}
				}
				if InCodeVec(H, x) != zero {
					t.Fatalf("expected InCodeVec == %v for %v", zero, x)
				}
			}
		})
	}
}

func TestInCode(t *testing.T) {
	// columns: two codewords then a single bit error
	X := mat.CSRMat(7, 3,
		1, 0, 1,
		0, 0, 0,
		0, 0, 0,
		0, 0, 0,
		1, 0, 1,
		1, 0, 1,
		0, 0, 1,
	)
	if InCode(hammingH, X) {
		t.Fatalf("expected third column to fail the parity check")
	}
	if !InCode(hammingH, X.Slice(0, 0, 7, 2)) {
		t.Fatalf("expected first two columns to be codewords")
	}
}

func TestBinaryProduct(t *testing.T) {
	product := BinaryProduct(hammingH, hammingTG)
	rows, cols := product.Dims()
	if rows != 3 || cols != 4 {
		t.Fatalf("expected (3, 4) but found (%v, %v)", rows, cols)
	}
	if !product.Equals(mat.CSRMat(3, 4)) {
		t.Fatalf("expected H*tG == 0 but found \n%v\n", product)
	}
}

func TestGaussElimination(t *testing.T) {
	tests := []struct {
		input mat.SparseMat
		err   error
	}{
		{hammingTG, nil},
		{ //column 2 == column 0 + column 1
			mat.CSRMat(4, 3, 1, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0),
			ErrRankDeficient,
		},
		{ //more columns than rows
			mat.CSRMat(2, 3, 1, 0, 0, 0, 1, 0),
			ErrRankDeficient,
		},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			rows, _ := test.input.Dims()
			A, _, err := GaussElimination(context.Background(), test.input, mat.CSRVec(rows), 0)
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Fatalf("expected %v but found %v", test.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			_, cols := A.Dims()
			for c := 0; c < cols; c++ {
				if A.At(c, c) != 1 {
					t.Fatalf("expected pivot at (%v, %v) in \n%v\n", c, c, A)
				}
				for r := c + 1; r < rows; r++ {
					if A.At(r, c) != 0 {
						t.Fatalf("expected zero at (%v, %v) in \n%v\n", r, c, A)
					}
				}
			}
		})
	}
}

func TestMessage(t *testing.T) {
	permute := func(order ...int) mat.SparseMat {
		permuted := mat.CSRMat(7, 4)
		for r, from := range order {
			permuted.SetRow(r, hammingTG.Row(from))
		}
		return permuted
	}

	tests := []struct {
		name string
		tG   mat.SparseMat
	}{
		{"systematic", hammingTG},
		{"shuffled", permute(4, 6, 0, 5, 2, 1, 3)},
		{"identity last", permute(4, 5, 6, 0, 1, 2, 3)},
	}
	for _, test := range tests {
		for _, threads := range []int{1, 4} {
			for m := 0; m < 16; m++ {
				t.Run(fmt.Sprintf("%v/%v/%v", test.name, threads, m), func(t *testing.T) {
					message := mat.CSRVec(4)
					for i := 0; i < 4; i++ {
						message.Set(i, (m>>i)&1)
					}
					codeword := BinaryProductVec(test.tG, message)

					actual, err := Message(context.Background(), test.tG, codeword, threads)
					if err != nil {
						t.Fatalf("expected no error but found: %v", err)
					}
					if !actual.Equals(message) {
						t.Fatalf("expected %v but found %v", message, actual)
					}
				})
			}
		}
	}
}

func TestMessage_RankDeficient(t *testing.T) {
	tG := mat.CSRMat(4, 2, 1, 1, 1, 1, 0, 0, 1, 1)
	for _, threads := range []int{1, 4} {
		_, err := Message(context.Background(), tG, mat.CSRVec(4), threads)
		if !errors.Is(err, ErrRankDeficient) {
			t.Fatalf("expected %v but found %v", ErrRankDeficient, err)
		}
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		input    mat.SparseMat
		expected int
	}{
		{hammingH, 3},
		{hammingTG, 4},
		{mat.CSRIdentity(5), 5},
		{mat.CSRMat(3, 3), 0},
		{mat.CSRMat(4, 5, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1), 3},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := Rank(context.Background(), test.input, 0)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}
