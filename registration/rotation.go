// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registration provides the concrete FracGM problem adapters for
// 3-D point-cloud registration — rotation-only, translation-only, and
// coupled rigid motion — plus a decoupled solver that chains the first two
// (spec.md §4.4-§4.7).
package registration

import (
	"github.com/StephLin/FracGM/fracgm"
	"github.com/StephLin/FracGM/spatial"
	"gonum.org/v1/gonum/mat"
)

const rotationDim = 10

// RotationAdapter implements fracgm.Problem for the rotation-only
// specialization: given translation-free correspondences, estimate the
// best-fit element of SO(3) under the Geman-McClure loss.
//
// The parameter vector x has 10 entries: x[0:9] is the column-major
// flatten of the 3x3 rotation R, and x[9] is a scale auxiliary fixed to 1
// on valid solutions.
type RotationAdapter struct {
	cfg fracgm.Config
}

// NewRotationAdapter builds a rotation-only adapter with the given
// iteration budget and convergence tolerance. Noise bound defaults to 0.1
// and c to 1.0; override with fracgm.WithNoiseBound / fracgm.WithC.
func NewRotationAdapter(maxIter int, tol float64, opts ...fracgm.Option) *RotationAdapter {
	return &RotationAdapter{cfg: fracgm.NewConfig(maxIter, tol, opts...)}
}

// Solve estimates the rotation matrix aligning src onto dst.
func (a *RotationAdapter) Solve(src, dst *mat.Dense) (*mat.Dense, error) {
	return fracgm.Solve(a, src, dst, a.cfg)
}

// SolveDiagnostic is Solve with full iteration-by-iteration diagnostics.
func (a *RotationAdapter) SolveDiagnostic(src, dst *mat.Dense) (fracgm.Diagnostic, error) {
	return fracgm.SolveDiagnostic(a, src, dst, a.cfg)
}

func (a *RotationAdapter) Dim() int { return rotationDim }

func (a *RotationAdapter) MatToVec(m *mat.Dense) *mat.VecDense {
	v := mat.NewVecDense(rotationDim, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v.SetVec(col*3+row, m.At(row, col))
		}
	}
	v.SetVec(9, 1)
	return v
}

func (a *RotationAdapter) VecToMat(x *mat.VecDense) *mat.Dense {
	r := mat.NewDense(3, 3, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r.Set(row, col, x.AtVec(col*3+row))
		}
	}
	return r
}

func (a *RotationAdapter) Project(m *mat.Dense) (*mat.Dense, error) {
	return spatial.Project(m)
}

// InitialGuess projects the cross-covariance of the centered clouds,
// dstᵀ·src, onto SO(3).
func (a *RotationAdapter) InitialGuess(src, dst *mat.Dense) (*mat.Dense, error) {
	csrc, _ := spatial.ZeroMean(src)
	cdst, _ := spatial.ZeroMean(dst)

	var outer mat.Dense
	outer.Mul(cdst.T(), csrc)
	return spatial.Project(&outer)
}

func (a *RotationAdapter) ComputeTerms(src, dst *mat.Dense) ([]*fracgm.Fractional, error) {
	n, _ := src.Dims()
	sigmaSq := a.cfg.NoiseBound * a.cfg.NoiseBound

	terms := make([]*fracgm.Fractional, n)
	for i := 0; i < n; i++ {
		p := [3]float64{src.At(i, 0), src.At(i, 1), src.At(i, 2)}
		q := [3]float64{dst.At(i, 0), dst.At(i, 1), dst.At(i, 2)}
		terms[i] = fracgm.NewFractional(fracgm.NewR2Sym(rotationTermMatrix(p, q, sigmaSq)), a.cfg.C)
	}
	return terms, nil
}

func (a *RotationAdapter) SolveX(sys *mat.Dense) (*mat.VecDense, error) {
	return fracgm.SolveSchur(sys)
}

// rotationTermMatrix builds M_i = N_iᵀN_i / σ² for correspondence (p, q),
// where N_i ∈ R^{3x10} has columns 0..8 = kron(pᵀ, I3) (so N_i·vec(R) =
// R·p) and column 9 = -q. N_iᵀN_i is formed with SymOuterK (s = x*xᵀ for
// x = N_iᵀ) rather than a Dense.Mul, so the result is typed as the
// symmetric matrix it provably is.
func rotationTermMatrix(p, q [3]float64, sigmaSq float64) *mat.SymDense {
	id3 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	pRow := mat.NewDense(1, 3, []float64{p[0], p[1], p[2]})

	var kron mat.Dense
	kron.Kronecker(pRow, id3)

	n := mat.NewDense(3, rotationDim, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 9; c++ {
			n.Set(r, c, kron.At(r, c))
		}
		n.Set(r, 9, -q[r])
	}

	var outer mat.SymDense
	outer.SymOuterK(1, n.T())

	m := mat.NewSymDense(rotationDim, nil)
	m.ScaleSym(1/sigmaSq, &outer)
	return m
}
