// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import "gonum.org/v1/gonum/mat"

// Problem supplies everything the FracGM engine needs to specialize its
// iterative loop to one concrete parameterization: rotation-only,
// translation-only, or coupled rigid motion (spec.md §4.3, §9 "trait-based
// adapter abstraction"). Implementations hold no solve-call state of their
// own beyond configuration; Solve and SolveDiagnostic own the working
// terms, β, and μ for a single call.
type Problem interface {
	// Dim is the dimension of the flattened parameter vector x.
	Dim() int
	// MatToVec flattens a parameter matrix to its vector encoding.
	MatToVec(m *mat.Dense) *mat.VecDense
	// VecToMat reconstructs a parameter matrix from its vector encoding.
	VecToMat(x *mat.VecDense) *mat.Dense
	// Project maps a parameter matrix onto the problem's feasible set
	// (e.g. SO(3) for the rotation block). It fails only if an internal
	// SVD does not converge.
	Project(m *mat.Dense) (*mat.Dense, error)
	// ComputeTerms builds one Fractional term per correspondence.
	ComputeTerms(src, dst *mat.Dense) ([]*Fractional, error)
	// InitialGuess computes the starting parameter matrix (before
	// MatToVec) from the input point clouds.
	InitialGuess(src, dst *mat.Dense) (*mat.Dense, error)
	// SolveX extracts the next parameter vector from the assembled
	// system matrix. It fails if the system is singular.
	SolveX(sys *mat.Dense) (*mat.VecDense, error)
}
