// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcis

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/mat"
)

// Inliers builds the compatibility graph for (src, dst) under noise bound
// sigma and returns the sorted vertex list of a maximum clique found within
// timeout (spec.md §4.8, §6). An empty graph returns an empty, non-nil
// list. A timed-out search still returns the best clique any worker found,
// per the MCIS-Timeout contract in spec.md §7 — this is not an error.
func Inliers(src, dst *mat.Dense, sigma float64, timeout time.Duration) []int64 {
	g := CompatibilityGraph(src, dst, sigma)
	clique := MaxClique(g, timeout)
	if clique == nil {
		return []int64{}
	}
	return clique
}

// MaxClique searches g for a maximum clique, bounding wall-clock time to
// timeout. The search roots one branch-and-bound exploration per vertex of
// a degeneracy ordering and fans the roots out across
// runtime.NumCPU() workers (spec.md §5: "thread pool scaled to logical-core
// count"). If the deadline elapses before every root finishes, MaxClique
// returns the best clique any worker had recorded — never an error.
func MaxClique(g graph.Undirected, timeout time.Duration) []int64 {
	nodes := graph.NodesOf(g.Nodes())
	if len(nodes) == 0 {
		return nil
	}

	neighbors := make(map[int64]vertexSet, len(nodes))
	for _, n := range nodes {
		neighbors[n.ID()] = neighborSet(g, n.ID())
	}

	order := degeneracyOrder(nodes, neighbors)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	state := &searchState{ctx: ctx, neighbors: neighbors}

	type root struct {
		v    int64
		cand vertexSet
	}
	roots := make([]root, len(order))
	for i, v := range order {
		roots[i] = root{v: v, cand: laterThan(order, i).intersect(neighbors[v])}
	}

	jobs := make(chan root, len(roots))
	for _, r := range roots {
		jobs <- r
	}
	close(jobs)

	workers := runtime.NumCPU()
	if workers > len(roots) {
		workers = len(roots)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for r := range jobs {
				if ctx.Err() != nil {
					return
				}
				state.expand([]int64{r.v}, r.cand)
			}
		}()
	}
	wg.Wait()

	best := state.bestClique()
	sort.Slice(best, func(i, j int) bool { return best[i] < best[j] })
	return best
}

// searchState holds the shared, mutex-protected best-clique-so-far across
// the parallel root searches.
type searchState struct {
	ctx       context.Context
	neighbors map[int64]vertexSet

	mu   sync.Mutex
	best []int64
}

func (s *searchState) record(candidate []int64) {
	s.mu.Lock()
	if len(candidate) > len(s.best) {
		s.best = append([]int64(nil), candidate...)
	}
	s.mu.Unlock()
}

func (s *searchState) bestLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.best)
}

func (s *searchState) bestClique() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.best...)
}

// expand is a Carraghan-Pardalos style branch-and-bound: r is the clique
// built so far, p the remaining candidates that are adjacent to every
// vertex in r. A branch is pruned once len(r)+len(p) can no longer beat the
// best clique recorded by any worker.
func (s *searchState) expand(r []int64, p vertexSet) {
	if s.ctx.Err() != nil {
		return
	}
	s.record(r)
	if len(p) == 0 || len(r)+len(p) <= s.bestLen() {
		return
	}

	for _, v := range p.slice() {
		if s.ctx.Err() != nil {
			return
		}
		if len(r)+len(p) <= s.bestLen() {
			return
		}
		nr := append(append([]int64(nil), r...), v)
		np := p.intersect(s.neighbors[v])
		s.expand(nr, np)
		p.remove(v)
	}
}

func neighborSet(g graph.Undirected, id int64) vertexSet {
	it := g.From(id)
	s := make(vertexSet, it.Len())
	for it.Next() {
		s.add(it.Node().ID())
	}
	return s
}

func laterThan(order []int64, p int) vertexSet {
	s := make(vertexSet, len(order)-p-1)
	for i := p + 1; i < len(order); i++ {
		s.add(order[i])
	}
	return s
}

// degeneracyOrder computes a smallest-last vertex ordering (Matula-Beck),
// the same ordering the legacy Bron-Kerbosch driver uses to root each
// maximal-clique search exactly once.
func degeneracyOrder(nodes []graph.Node, neighbors map[int64]vertexSet) []int64 {
	degree := make(map[int64]int, len(nodes))
	maxDeg := 0
	for _, n := range nodes {
		id := n.ID()
		d := len(neighbors[id])
		degree[id] = d
		if d > maxDeg {
			maxDeg = d
		}
	}

	buckets := make([][]int64, maxDeg+1)
	for _, n := range nodes {
		id := n.ID()
		buckets[degree[id]] = append(buckets[degree[id]], id)
	}

	removed := make(map[int64]bool, len(nodes))
	order := make([]int64, 0, len(nodes))

	for range nodes {
		i := 0
		for ; i <= maxDeg; i++ {
			if len(buckets[i]) > 0 {
				break
			}
		}
		if i > maxDeg {
			break
		}

		bl := buckets[i]
		v := bl[len(bl)-1]
		buckets[i] = bl[:len(bl)-1]

		order = append(order, v)
		removed[v] = true

		for n := range neighbors[v] {
			if removed[n] {
				continue
			}
			d := degree[n]
			bl := buckets[d]
			for idx, x := range bl {
				if x == n {
					bl[idx] = bl[len(bl)-1]
					buckets[d] = bl[:len(bl)-1]
					break
				}
			}
			degree[n] = d - 1
			buckets[d-1] = append(buckets[d-1], n)
		}
	}

	// order is currently in removal order (smallest remaining degree
	// first); reverse it to smallest-last, so later-ordered vertices are
	// the ones removed earlier, at lower remaining degree.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
