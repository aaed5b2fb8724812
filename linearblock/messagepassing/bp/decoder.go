// Package bp decodes binary linear block codes with log-domain sum-product
// belief propagation on the code's Tanner graph.
package bp

import (
	"context"
	"fmt"

	"github.com/nathanhack/ldpcbp/linearblock/gf2"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/llr"
	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/tanner"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
	mat2 "gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxIter    = 1000
	DefaultLLRMaxIter = 10
)

var ErrShape = tanner.ErrShape

//Result is the outcome of decoding a batch of received words.
type Result struct {
	Codeword   mat.SparseMat // bits x messages hard decision of the last sweep
	Posterior  *mat2.Dense   // bits x messages
	Iterations int
	Converged  bool
}

//Column returns the hard decision for the i-th message of the batch.
func (r *Result) Column(i int) mat.SparseVector {
	return r.Codeword.Column(i)
}

type Option func(*Decoder)

//WithThreads sets the threads used by each sweep, if <=0 will use runtime.NumCPU().
func WithThreads(threads int) Option {
	return func(d *Decoder) {
		d.threads = threads
	}
}

//WithLayout forces the adjacency layout instead of choosing it from H.
func WithLayout(layout tanner.Layout) Option {
	return func(d *Decoder) {
		d.layout = &layout
	}
}

//WithUnconvergedLevel sets the log level of the message written when a decode
// runs out of iterations. Sweeps that count unconverged decodes themselves use
// logrus.DebugLevel to keep the log quiet.
func WithUnconvergedLevel(level logrus.Level) Option {
	return func(d *Decoder) {
		d.unconverged = level
	}
}

//Decoder holds the Tanner graph and update strategy of one parity-check matrix.
// It is read only after NewDecoder so a single Decoder may run many decodes
// concurrently, each with its own State.
type Decoder struct {
	H       mat.SparseMat
	graph   *tanner.Graph
	solver  Solver
	threads int
	layout  *tanner.Layout

	unconverged logrus.Level
}

func NewDecoder(H mat.SparseMat, opts ...Option) (*Decoder, error) {
	d := &Decoder{H: H, threads: 1, unconverged: logrus.WarnLevel}
	for _, opt := range opts {
		opt(d)
	}

	var err error
	if d.layout != nil {
		d.graph, err = tanner.NewWithLayout(H, *d.layout)
	} else {
		d.graph, err = tanner.New(H)
	}
	if err != nil {
		return nil, err
	}

	d.solver = NewSolver(d.graph, d.threads)
	logrus.Debugf("bp decoder ready: %v", d.graph)
	return d, nil
}

func (d *Decoder) Graph() *tanner.Graph {
	return d.graph
}

//Init builds the decoder for H and the channel LLRs of y (bits x messages).
func Init(H mat.SparseMat, y mat2.Matrix, snr float64) (*Decoder, *mat2.Dense, error) {
	d, err := NewDecoder(H)
	if err != nil {
		return nil, nil, err
	}
	if err := d.checkReceived(y); err != nil {
		return nil, nil, err
	}
	return d, llr.FromChannel(y, snr), nil
}

//Decode runs belief propagation on the BPSK received words y (one per column)
// observed at snr dB, for at most maxIter sweeps.
func Decode(ctx context.Context, H mat.SparseMat, y mat2.Matrix, snr float64, maxIter int) (*Result, error) {
	d, lc, err := Init(H, y, snr)
	if err != nil {
		return nil, err
	}
	return d.DecodeLLR(ctx, lc, nil, maxIter)
}

func (d *Decoder) Decode(ctx context.Context, y mat2.Matrix, snr float64, maxIter int) (*Result, error) {
	if err := d.checkReceived(y); err != nil {
		return nil, err
	}
	return d.DecodeLLR(ctx, llr.FromChannel(y, snr), nil, maxIter)
}

//DecodeVec decodes a single received word.
func (d *Decoder) DecodeVec(ctx context.Context, y mat2.Vector, snr float64, maxIter int) (mat.SparseVector, *Result, error) {
	result, err := d.Decode(ctx, y, snr, maxIter)
	if err != nil {
		return nil, nil, err
	}
	return result.Column(0), result, nil
}

//DecodeLLR decodes from channel LLRs lc (bits x messages). When la is not nil its
// k rows of a-priori LLRs are added to the first k rows of lc before decoding.
// lc is not modified.
func (d *Decoder) DecodeLLR(ctx context.Context, lc mat2.Matrix, la mat2.Matrix, maxIter int) (*Result, error) {
	if maxIter < 1 {
		return nil, fmt.Errorf("maxIter >= 1 is required but found %v", maxIter)
	}
	if lc == nil {
		return nil, fmt.Errorf("%w: nil Lc", ErrShape)
	}
	rows, messages := lc.Dims()
	if rows != d.graph.Bits() {
		return nil, fmt.Errorf("%w: Lc has %v rows but H has %v columns", ErrShape, rows, d.graph.Bits())
	}

	start := mat2.DenseCopyOf(lc)
	if la != nil {
		k, cols := la.Dims()
		if k > rows || cols != messages {
			return nil, fmt.Errorf("%w: La is (%v, %v) but at most (%v, %v) is allowed", ErrShape, k, cols, rows, messages)
		}
		for i := 0; i < k; i++ {
			for j := 0; j < messages; j++ {
				start.Set(i, j, start.At(i, j)+la.At(i, j))
			}
		}
	}

	return d.iterate(ctx, NewState(d.graph, start), maxIter)
}

func (d *Decoder) iterate(ctx context.Context, s *State, maxIter int) (*Result, error) {
	var x mat.SparseMat
	for iteration := 0; iteration < maxIter; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.solver.Update(ctx, s, iteration)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x = llr.HardDecision(s.Posterior)
		if gf2.InCode(d.H, x) {
			logrus.Debugf("bp converged after %v iterations", iteration+1)
			return &Result{Codeword: x, Posterior: s.Posterior, Iterations: iteration + 1, Converged: true}, nil
		}
	}

	logrus.StandardLogger().Logf(d.unconverged, "bp did not converge after %v iterations, you may want to increase maxIter", maxIter)
	return &Result{Codeword: x, Posterior: s.Posterior, Iterations: maxIter, Converged: false}, nil
}

func (d *Decoder) checkReceived(y mat2.Matrix) error {
	if y == nil {
		return fmt.Errorf("%w: nil received words", ErrShape)
	}
	rows, _ := y.Dims()
	if rows != d.graph.Bits() {
		return fmt.Errorf("%w: received words have %v rows but H has %v columns", ErrShape, rows, d.graph.Bits())
	}
	return nil
}
