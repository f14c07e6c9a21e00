// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcis

import (
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// CompatibilityGraph builds the undirected graph on N = src.Dims() vertices
// with edge (i,j) iff |‖pᵢ−pⱼ‖ − ‖qᵢ−qⱼ‖| ≤ 2σ (spec.md §4.8). Construction
// is O(N²) and allocates only the upper-triangle comparisons once.
func CompatibilityGraph(src, dst *mat.Dense, sigma float64) *simple.UndirectedGraph {
	n, _ := src.Dims()
	g := simple.NewUndirectedGraph()

	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}

	threshold := 2 * sigma
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dp := rowDist(src, i, j)
			dq := rowDist(dst, i, j)
			if math.Abs(dp-dq) <= threshold {
				g.SetEdge(g.NewEdge(simple.Node(int64(i)), simple.Node(int64(j))))
			}
		}
	}
	return g
}

func rowDist(m *mat.Dense, i, j int) float64 {
	var sum float64
	for c := 0; c < 3; c++ {
		d := m.At(i, c) - m.At(j, c)
		sum += d * d
	}
	return math.Sqrt(sum)
}
