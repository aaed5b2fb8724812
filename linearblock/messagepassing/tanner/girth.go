package tanner

import (
	"context"
	"math"
	"sync"

	"github.com/nathanhack/threadpool"
)

type girthNode struct {
	parentIndex int
}

// Girth calculates the girth of the tanner graph, -1 when it has no cycles.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func (g *Graph) Girth(ctx context.Context, threads int) int {
	return g.GirthLowerBound(ctx, -1, threads)
}

// GirthLowerBound returns the length of the smallest cycle.
// It searches for cycles with a length <= smallestGirth. If no cycles are found
// that are smaller or equal to smallestGirth then it returns -1.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func (g *Graph) GirthLowerBound(ctx context.Context, smallestGirth, threads int) int {
	if smallestGirth != -1 && (smallestGirth < 4 || smallestGirth%2 != 0) {
		panic("smallestGirth == -1 or smallestGirth must be a even number >=4")
	}

	pool := threadpool.NewFixedSize(ctx, threads, g.checks)
	calculated := -1
	mux := sync.Mutex{}
	for i := 0; i < g.checks; i++ {
		index := i
		pool.Add(func() {
			mux.Lock()
			limit := smallestGirth
			mux.Unlock()

			c := g.CycleLowerBound(ctx, index, limit)

			mux.Lock()
			if c > 0 && (smallestGirth == -1 || c <= smallestGirth) {
				smallestGirth = c
				calculated = c
			}
			mux.Unlock()
		})
	}
	pool.Wait()
	return calculated
}

// CycleLowerBound runs a BFS starting at the checkIndex check node, for maxGirth/2 steps
// if maxGirth ==-1 it will search until it finds a cycle
// in either case it returns the length of the cycle (up to maxGirth) or -1 if no cycle was found
func (g *Graph) CycleLowerBound(ctx context.Context, checkIndex, maxGirth int) int {
	if maxGirth == -1 {
		maxGirth = math.MaxInt64
	}

	//levels alternate between bit nodes and check nodes
	// as we extend to each new hop away from the checkIndex
	history := make([]map[int]girthNode, 0)

	hop := make(map[int]girthNode)
	for _, v := range g.CheckBits(checkIndex) {
		hop[v] = girthNode{parentIndex: checkIndex}
	}
	//a single bit node can't close a loop
	if len(hop) <= 1 {
		return -1
	}
	history = append(history, hop)

	for level := 1; level < 2*g.checks && level < maxGirth/2+1; level++ {
		select {
		case <-ctx.Done():
			return -1
		default:
		}

		prevHop := history[level-1]
		hop := make(map[int]girthNode)
		toChecks := level%2 == 1
		for v, gn := range prevHop {
			var indices []int
			if toChecks {
				indices = g.BitChecks(v)
			} else {
				indices = g.CheckBits(v)
			}
			for _, i := range indices {
				if i == gn.parentIndex {
					continue
				}
				_, has := hop[i]
				if has || (toChecks && i == checkIndex) {
					return (level + 1) * 2
				}
				hop[i] = girthNode{parentIndex: v}
			}
		}
		if len(hop) == 0 {
			return -1
		}
		history = append(history, hop)
	}
	return -1
}
