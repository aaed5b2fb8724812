package bp

import (
	"context"
	"runtime"

	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/tanner"
	"github.com/nathanhack/threadpool"
)

// nodes per task when a sweep phase is split across threads
const minChunk = 64

//Solver runs one synchronous (flooding) sum-product sweep: every check node is
// updated from the previous sweep's Lq, then every bit node from the new Lr.
// After Update returns, Lq, Lr and Posterior of s reflect exactly one sweep.
type Solver interface {
	Update(ctx context.Context, s *State, iteration int)
}

//NewSolver picks the strategy matching the graph's layout.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func NewSolver(g *tanner.Graph, threads int) Solver {
	switch g.Layout() {
	case tanner.Regular:
		return &regularSolver{adj: g.Regular(), checks: g.Checks(), bits: g.Bits(), threads: threads}
	default:
		return &irregularSolver{adj: g.Irregular(), checks: g.Checks(), bits: g.Bits(), threads: threads}
	}
}

// regularSolver addresses the rectangular adjacency by stride.
type regularSolver struct {
	adj     *tanner.RegularAdjacency
	checks  int
	bits    int
	threads int
}

func (r *regularSolver) Update(ctx context.Context, s *State, iteration int) {
	dc, dv := r.adj.CheckDegree, r.adj.BitDegree
	if dc > 0 {
		forChunks(ctx, r.threads, r.checks, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				s.checkUpdate(r.adj.BitsValues[i*dc:(i+1)*dc], i*dc, iteration)
			}
		})
	}
	forChunks(ctx, r.threads, r.bits, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			s.bitUpdate(j, r.adj.NodesEdges[j*dv:(j+1)*dv])
		}
	})
}

// irregularSolver walks the ragged adjacency with running counters over the histograms.
type irregularSolver struct {
	adj     *tanner.IrregularAdjacency
	checks  int
	bits    int
	threads int
}

func (r *irregularSolver) Update(ctx context.Context, s *State, iteration int) {
	forChunks(ctx, r.threads, r.checks, func(lo, hi int) {
		counter := r.adj.CheckOffset(lo)
		for i := lo; i < hi; i++ {
			ff := r.adj.BitsHist[i]
			s.checkUpdate(r.adj.BitsValues[counter:counter+ff], counter, iteration)
			counter += ff
		}
	})
	forChunks(ctx, r.threads, r.bits, func(lo, hi int) {
		counter := r.adj.NodeOffset(lo)
		for j := lo; j < hi; j++ {
			ff := r.adj.NodesHist[j]
			s.bitUpdate(j, r.adj.NodesEdges[counter:counter+ff])
			counter += ff
		}
	})
}

// forChunks runs fn over [0,n) in contiguous chunks and returns once all of
// them are done, which is the barrier between sweep phases.
func forChunks(ctx context.Context, threads, n int, fn func(lo, hi int)) {
	workers := threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || n < 2*minChunk {
		fn(0, n)
		return
	}

	size := max((n+workers-1)/workers, minChunk)
	pool := threadpool.NewFixedSize(ctx, workers, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		pool.Add(func() { fn(lo, hi) })
	}
	pool.Wait()
}
