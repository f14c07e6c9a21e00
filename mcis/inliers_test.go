// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcis

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func spherePoints(n int) *mat.Dense {
	p := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		phi := math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
		theta := math.Pi * (1 + math.Sqrt(5)) * float64(i)
		p.Set(i, 0, math.Sin(phi)*math.Cos(theta))
		p.Set(i, 1, math.Sin(phi)*math.Sin(theta))
		p.Set(i, 2, math.Cos(phi))
	}
	return p
}

// TestInliersSubsetProperty is testable property 7 (spec.md §8): the
// returned inlier list is a subset of [0, N) and its induced subgraph is a
// clique.
func TestInliersSubsetProperty(t *testing.T) {
	n := 40
	src := spherePoints(n)
	dst := mat.NewDense(n, 3, nil)
	dst.Copy(src)
	// Perturb every third dst row (14 of the 40) far beyond the noise bound.
	sigma := 0.1
	for i := 0; i < n; i += 3 {
		dst.Set(i, 0, dst.At(i, 0)+10*sigma)
	}

	g := CompatibilityGraph(src, dst, sigma)
	inliers := Inliers(src, dst, sigma, 5*time.Second)

	for _, idx := range inliers {
		if idx < 0 || idx >= int64(n) {
			t.Fatalf("inlier index %d out of range [0, %d)", idx, n)
		}
	}
	for _, u := range inliers {
		for _, v := range inliers {
			if u != v && !g.HasEdgeBetween(u, v) {
				t.Fatalf("inlier set %v is not a clique: %d-%d missing", inliers, u, v)
			}
		}
	}

	// At least some of the perturbed rows should be excluded from the
	// inlier clique.
	perturbed := make(map[int64]bool)
	for i := 0; i < n; i += 3 {
		perturbed[int64(i)] = true
	}
	excluded := 0
	for idx := range perturbed {
		found := false
		for _, in := range inliers {
			if in == idx {
				found = true
				break
			}
		}
		if !found {
			excluded++
		}
	}
	if excluded == 0 {
		t.Error("expected at least some perturbed rows to be excluded from the inlier clique")
	}
}

func TestInliersEmptyGraphReturnsEmptyList(t *testing.T) {
	src := mat.NewDense(0, 3, nil)
	dst := mat.NewDense(0, 3, nil)

	got := Inliers(src, dst, 0.1, time.Second)
	if got == nil {
		t.Fatal("Inliers returned nil, want a non-nil empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len(Inliers) = %d, want 0", len(got))
	}
}
