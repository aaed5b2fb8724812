// Package tanner builds the bipartite check/bit adjacency of a parity-check
// matrix. The adjacency comes in two layouts: a rectangular one for regular
// codes (every check and every bit has the same degree) and a ragged one for
// everything else. The layout is picked once when the graph is built.
package tanner

import (
	"errors"
	"fmt"

	mat "github.com/nathanhack/sparsemat"
	"golang.org/x/exp/slices"
	mat2 "gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when a parity-check matrix is missing, empty or not binary.
	ErrShape = errors.New("invalid parity-check matrix shape")
	// ErrLayout is returned when a layout is requested that the matrix does not support.
	ErrLayout = errors.New("layout not supported by parity-check matrix")
)

type Layout int

const (
	Irregular Layout = iota
	Regular
)

func (l Layout) String() string {
	switch l {
	case Regular:
		return "Regular"
	case Irregular:
		return "Irregular"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

//Adjacency is implemented by RegularAdjacency and IrregularAdjacency.
type Adjacency interface {
	CheckBits(check int) []int
	BitChecks(bit int) []int
	BitEdges(bit int) []int
}

//RegularAdjacency stores the adjacency of a regular code as two dense
// row-major matrices of width CheckDegree and BitDegree.
// Edge ids are check-major: the edge for BitsValues[e] is e.
type RegularAdjacency struct {
	CheckDegree int
	BitDegree   int
	BitsValues  []int // checks x CheckDegree
	NodesValues []int // bits x BitDegree
	NodesEdges  []int // bits x BitDegree
}

func (r *RegularAdjacency) CheckBits(check int) []int {
	return r.BitsValues[check*r.CheckDegree : (check+1)*r.CheckDegree]
}

func (r *RegularAdjacency) BitChecks(bit int) []int {
	return r.NodesValues[bit*r.BitDegree : (bit+1)*r.BitDegree]
}

func (r *RegularAdjacency) BitEdges(bit int) []int {
	return r.NodesEdges[bit*r.BitDegree : (bit+1)*r.BitDegree]
}

//IrregularAdjacency stores ragged adjacency lists flattened with per-node counts.
// Edge ids are check-major: the edge for BitsValues[e] is e.
type IrregularAdjacency struct {
	BitsHist    []int // degree of each check node
	BitsValues  []int // bit nodes of each check node
	NodesHist   []int // degree of each bit node
	NodesValues []int // check nodes of each bit node
	NodesEdges  []int // edge id of each NodesValues entry

	bitsOffset  []int
	nodesOffset []int
}

func (r *IrregularAdjacency) CheckBits(check int) []int {
	return r.BitsValues[r.bitsOffset[check]:r.bitsOffset[check+1]]
}

func (r *IrregularAdjacency) BitChecks(bit int) []int {
	return r.NodesValues[r.nodesOffset[bit]:r.nodesOffset[bit+1]]
}

func (r *IrregularAdjacency) BitEdges(bit int) []int {
	return r.NodesEdges[r.nodesOffset[bit]:r.nodesOffset[bit+1]]
}

//CheckOffset is the edge id of the first edge of check.
func (r *IrregularAdjacency) CheckOffset(check int) int {
	return r.bitsOffset[check]
}

//NodeOffset is the position in NodesValues of the first check of bit.
func (r *IrregularAdjacency) NodeOffset(bit int) int {
	return r.nodesOffset[bit]
}

//Graph is the Tanner graph of a parity-check matrix. It is read only after
// construction and may be shared between concurrent decoders.
type Graph struct {
	checks, bits int
	edges        int
	edgeBits     []int // bit node of each edge
	layout       Layout
	adjacency    Adjacency
}

//New builds the Tanner graph of H, choosing the Regular layout only when all check
// nodes share one degree and all bit nodes share one degree.
func New(H mat.SparseMat) (*Graph, error) {
	return build(H, func(checkDegrees, bitDegrees []int) Layout {
		if uniform(checkDegrees) && uniform(bitDegrees) {
			return Regular
		}
		return Irregular
	})
}

//NewWithLayout builds the Tanner graph of H with the given layout. Asking for
// Regular on an irregular H returns an error wrapping ErrLayout.
func NewWithLayout(H mat.SparseMat, layout Layout) (*Graph, error) {
	var layoutErr error
	g, err := build(H, func(checkDegrees, bitDegrees []int) Layout {
		if layout == Regular && !(uniform(checkDegrees) && uniform(bitDegrees)) {
			layoutErr = fmt.Errorf("%w: %v requires uniform check and bit degrees", ErrLayout, layout)
		}
		return layout
	})
	if layoutErr != nil {
		return nil, layoutErr
	}
	return g, err
}

func uniform(degrees []int) bool {
	return len(degrees) == 0 || slices.Min(degrees) == slices.Max(degrees)
}

func build(H mat.SparseMat, choose func(checkDegrees, bitDegrees []int) Layout) (*Graph, error) {
	if H == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrShape)
	}
	m, n := H.Dims()
	if m <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrShape, m, n)
	}

	checkToBits := make([][]int, m)
	bitToChecks := make([][]int, n)
	bitToEdges := make([][]int, n)
	edgeBits := make([]int, 0)
	for c := range checkToBits {
		checkToBits[c] = H.Row(c).NonzeroArray()
		for _, v := range checkToBits[c] {
			bitToChecks[v] = append(bitToChecks[v], c)
			bitToEdges[v] = append(bitToEdges[v], len(edgeBits))
			edgeBits = append(edgeBits, v)
		}
	}

	checkDegrees := make([]int, m)
	for c, bits := range checkToBits {
		checkDegrees[c] = len(bits)
	}
	bitDegrees := make([]int, n)
	for v, checks := range bitToChecks {
		bitDegrees[v] = len(checks)
	}

	g := &Graph{
		checks:   m,
		bits:     n,
		edges:    len(edgeBits),
		edgeBits: edgeBits,
		layout:   choose(checkDegrees, bitDegrees),
	}

	switch g.layout {
	case Regular:
		g.adjacency = &RegularAdjacency{
			CheckDegree: checkDegrees[0],
			BitDegree:   bitDegrees[0],
			BitsValues:  flatten(checkToBits),
			NodesValues: flatten(bitToChecks),
			NodesEdges:  flatten(bitToEdges),
		}
	case Irregular:
		g.adjacency = &IrregularAdjacency{
			BitsHist:    checkDegrees,
			BitsValues:  flatten(checkToBits),
			NodesHist:   bitDegrees,
			NodesValues: flatten(bitToChecks),
			NodesEdges:  flatten(bitToEdges),
			bitsOffset:  offsets(checkDegrees),
			nodesOffset: offsets(bitDegrees),
		}
	default:
		return nil, fmt.Errorf("%w: unknown %v", ErrLayout, g.layout)
	}
	return g, nil
}

func flatten(lists [][]int) []int {
	size := 0
	for _, l := range lists {
		size += len(l)
	}
	result := make([]int, 0, size)
	for _, l := range lists {
		result = append(result, l...)
	}
	return result
}

func offsets(hist []int) []int {
	result := make([]int, len(hist)+1)
	for i, h := range hist {
		result[i+1] = result[i] + h
	}
	return result
}

//FromDense converts a dense real matrix into a sparse parity-check matrix.
// Every entry must be exactly 0 or 1.
func FromDense(h mat2.Matrix) (mat.SparseMat, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrShape)
	}
	rows, cols := h.Dims()
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrShape, rows, cols)
	}

	H := mat.CSRMat(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			switch v := h.At(i, j); v {
			case 0:
			case 1:
				H.Set(i, j, 1)
			default:
				return nil, fmt.Errorf("%w: entry (%v, %v) == %v is not binary", ErrShape, i, j, v)
			}
		}
	}
	return H, nil
}

func (g *Graph) Checks() int {
	return g.checks
}

func (g *Graph) Bits() int {
	return g.bits
}

func (g *Graph) Edges() int {
	return g.edges
}

func (g *Graph) Layout() Layout {
	return g.layout
}

func (g *Graph) Adjacency() Adjacency {
	return g.adjacency
}

//Regular returns the rectangular adjacency, or nil when the graph is Irregular.
func (g *Graph) Regular() *RegularAdjacency {
	r, _ := g.adjacency.(*RegularAdjacency)
	return r
}

//Irregular returns the ragged adjacency, or nil when the graph is Regular.
func (g *Graph) Irregular() *IrregularAdjacency {
	r, _ := g.adjacency.(*IrregularAdjacency)
	return r
}

func (g *Graph) CheckBits(check int) []int {
	return g.adjacency.CheckBits(check)
}

func (g *Graph) BitChecks(bit int) []int {
	return g.adjacency.BitChecks(bit)
}

func (g *Graph) BitEdges(bit int) []int {
	return g.adjacency.BitEdges(bit)
}

//EdgeBit returns the bit node at the end of an edge.
func (g *Graph) EdgeBit(edge int) int {
	return g.edgeBits[edge]
}

func (g *Graph) String() string {
	return fmt.Sprintf("{Checks:%v, Bits:%v, Edges:%v, Layout:%v}", g.checks, g.bits, g.edges, g.layout)
}
