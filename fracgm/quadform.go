// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fracgm implements the FracGM fractional-programming engine: the
// iterative solver that turns a sum of Geman-McClure robust loss terms into
// a sequence of linear systems, plus the auxiliary types (R2Sym,
// Fractional, Diagnostic) it is built from. Concrete problem
// specializations (rotation-only, translation-only, coupled rigid motion)
// live in the sibling registration package.
package fracgm

import "gonum.org/v1/gonum/mat"

// R2 computes and caches the quadratic form f(x) = x^T A x for a fixed
// matrix A and varying x.
type R2 interface {
	// Call computes x^T A x without touching the cache.
	Call(x *mat.VecDense) float64
	// UpdateCache recomputes and stores Call(x).
	UpdateCache(x *mat.VecDense)
	// Mat returns the matrix A.
	Mat() *mat.SymDense
	// Cache returns the value computed by the most recent UpdateCache.
	Cache() float64
}

// R2Sym is an R2 specialized for a symmetric A, backed by mat.SymDense so
// the symmetry the spec's data model requires (§3, "QuadForm (R²Sym) | (A:
// n×n symmetric, cached scalar)") is a property of the type rather than a
// caller obligation. It evaluates the quadratic form by walking only the
// upper triangle of A and doubling the off-diagonal contribution, roughly
// halving the work of a full dense multiply.
type R2Sym struct {
	mat   *mat.SymDense
	cache float64
}

// NewR2Sym wraps a symmetric matrix as an R2Sym.
func NewR2Sym(a *mat.SymDense) *R2Sym {
	return &R2Sym{mat: a}
}

// Call returns x^T A x.
func (r *R2Sym) Call(x *mat.VecDense) float64 {
	n, _ := r.mat.Dims()

	var upper, diag float64
	for i := 0; i < n; i++ {
		xi := x.AtVec(i)
		diag += xi * r.mat.At(i, i) * xi
		for j := i + 1; j < n; j++ {
			upper += xi * r.mat.At(i, j) * x.AtVec(j)
		}
	}
	return 2*upper + diag
}

// UpdateCache recomputes and stores Call(x).
func (r *R2Sym) UpdateCache(x *mat.VecDense) { r.cache = r.Call(x) }

// Mat returns the underlying symmetric matrix A.
func (r *R2Sym) Mat() *mat.SymDense { return r.mat }

// Cache returns the value computed by the most recent UpdateCache.
func (r *R2Sym) Cache() float64 { return r.cache }
