// Package gf2 holds the binary (GF(2)) linear algebra used around the decoder:
// products, the codeword membership test, and the elimination used to pull a
// message back out of a decoded codeword.
package gf2

import (
	"fmt"

	mat "github.com/nathanhack/sparsemat"
)

//BinaryProductVec returns A*x over GF(2).
func BinaryProductVec(A mat.SparseMat, x mat.SparseVector) mat.SparseVector {
	rows, cols := A.Dims()
	if x.Len() != cols {
		panic(fmt.Sprintf("vector length == %v is required but found %v", cols, x.Len()))
	}

	result := mat.CSRVec(rows)
	result.MatMul(A, x)
	return result
}

//BinaryProduct returns A*B over GF(2), one column of B at a time.
func BinaryProduct(A, B mat.SparseMat) mat.SparseMat {
	rows, inner := A.Dims()
	bRows, cols := B.Dims()
	if inner != bRows {
		panic(fmt.Sprintf("matrix shapes (%v, %v) and (%v, %v) are not aligned", rows, inner, bRows, cols))
	}

	result := mat.CSRMat(rows, cols)
	for j := 0; j < cols; j++ {
		result.SetColumn(j, BinaryProductVec(A, B.Column(j)))
	}
	return result
}

//InCodeVec is true when H*x == 0 over GF(2).
func InCodeVec(H mat.SparseMat, x mat.SparseVector) bool {
	return BinaryProductVec(H, x).IsZero()
}

//InCode is true when every column of X is a codeword of H.
func InCode(H mat.SparseMat, X mat.SparseMat) bool {
	_, cols := X.Dims()
	for j := 0; j < cols; j++ {
		if !InCodeVec(H, X.Column(j)) {
			return false
		}
	}
	return true
}
