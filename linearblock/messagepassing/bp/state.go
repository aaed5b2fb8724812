package bp

import (
	"math"

	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/tanner"
	"gonum.org/v1/gonum/floats"
	mat2 "gonum.org/v1/gonum/mat"
)

//State holds the buffers of a single decode call. Lq and Lr are indexed by
// edge (check-major, see tanner) and message; only edges carry messages so the
// (checks x bits) planes are never materialized. A State must not be shared
// between concurrent decodes.
type State struct {
	Lc        *mat2.Dense // bits x messages
	Lq        *mat2.Dense // edges x messages, bit to check
	Lr        *mat2.Dense // edges x messages, check to bit
	Posterior *mat2.Dense // bits x messages

	tanh *mat2.Dense // edges x messages
}

//NewState allocates zeroed message buffers for g and takes ownership of lc.
func NewState(g *tanner.Graph, lc *mat2.Dense) *State {
	bits, messages := lc.Dims()
	s := &State{
		Lc:        lc,
		Posterior: mat2.NewDense(bits, messages, nil),
	}
	if g.Edges() > 0 {
		s.Lq = mat2.NewDense(g.Edges(), messages, nil)
		s.Lr = mat2.NewDense(g.Edges(), messages, nil)
		s.tanh = mat2.NewDense(g.Edges(), messages, nil)
	}
	return s
}

//Messages is the batch size.
func (s *State) Messages() int {
	_, c := s.Lc.Dims()
	return c
}

// checkUpdate is the horizontal step for one check node whose edges are
// first..first+len(bits)-1:
//  Lr = log((1+X)/(1-X)), X = prod over the other edges of tanh(Lin/2)
// where Lin is Lc on the first iteration and Lq afterwards.
func (s *State) checkUpdate(bits []int, first, iteration int) {
	for p, bit := range bits {
		in := s.Lc.RawRowView(bit)
		if iteration > 0 {
			in = s.Lq.RawRowView(first + p)
		}
		t := s.tanh.RawRowView(first + p)
		for ll, v := range in {
			t[ll] = math.Tanh(0.5 * v)
		}
	}

	for p := range bits {
		x := s.Lr.RawRowView(first + p)
		for ll := range x {
			x[ll] = 1
		}
		for q := range bits {
			if q != p {
				floats.Mul(x, s.tanh.RawRowView(first+q))
			}
		}

		for ll, X := range x {
			num := 1 + X
			denom := 1 - X
			switch {
			case num == 0:
				x[ll] = -1
			case denom == 0:
				x[ll] = 1
			default:
				x[ll] = math.Log(num / denom)
			}
		}
	}
}

// bitUpdate is the vertical step and the posterior for one bit node:
//  Lq = Lc + sum of Lr over the other edges
//  L  = Lc + sum of Lr over all edges
func (s *State) bitUpdate(bit int, edges []int) {
	lc := s.Lc.RawRowView(bit)
	for _, e := range edges {
		q := s.Lq.RawRowView(e)
		copy(q, lc)
		for _, other := range edges {
			if other != e {
				floats.Add(q, s.Lr.RawRowView(other))
			}
		}
	}

	post := s.Posterior.RawRowView(bit)
	for ll := range post {
		post[ll] = 0
	}
	for _, e := range edges {
		floats.Add(post, s.Lr.RawRowView(e))
	}
	floats.Add(post, lc)
}
