// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registration

import (
	"github.com/StephLin/FracGM/fracgm"
	"github.com/StephLin/FracGM/spatial"
	"gonum.org/v1/gonum/mat"
)

const rigidDim = 13

// RigidAdapter implements fracgm.Problem for the coupled specialization:
// rotation and translation are estimated jointly in a single 13-dimensional
// system, rather than decoupled via TIMs (compare DecoupledSolver).
//
// The parameter vector x has 13 entries: x[0:9] is the column-major
// flatten of the rotation block, x[9:12] is the translation, and x[12] is
// fixed to 1.
type RigidAdapter struct {
	cfg fracgm.Config
}

// NewRigidAdapter builds a coupled rigid-motion adapter with the given
// iteration budget and convergence tolerance. Noise bound defaults to 0.1
// and c to 1.0; override with fracgm.WithNoiseBound / fracgm.WithC.
func NewRigidAdapter(maxIter int, tol float64, opts ...fracgm.Option) *RigidAdapter {
	return &RigidAdapter{cfg: fracgm.NewConfig(maxIter, tol, opts...)}
}

// Solve estimates the 4x4 homogeneous transform aligning src onto dst.
func (a *RigidAdapter) Solve(src, dst *mat.Dense) (*mat.Dense, error) {
	return fracgm.Solve(a, src, dst, a.cfg)
}

// SolveDiagnostic is Solve with full iteration-by-iteration diagnostics.
func (a *RigidAdapter) SolveDiagnostic(src, dst *mat.Dense) (fracgm.Diagnostic, error) {
	return fracgm.SolveDiagnostic(a, src, dst, a.cfg)
}

func (a *RigidAdapter) Dim() int { return rigidDim }

func (a *RigidAdapter) MatToVec(m *mat.Dense) *mat.VecDense {
	v := mat.NewVecDense(rigidDim, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v.SetVec(col*3+row, m.At(row, col))
		}
		v.SetVec(9+row, m.At(row, 3))
	}
	v.SetVec(12, 1)
	return v
}

func (a *RigidAdapter) VecToMat(x *mat.VecDense) *mat.Dense {
	t := mat.NewDense(4, 4, nil)
	t.Set(3, 3, 1)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			t.Set(row, col, x.AtVec(col*3+row))
		}
		t.Set(row, 3, x.AtVec(9+row))
	}
	return t
}

// Project re-projects the 3x3 rotation block onto SO(3); the translation
// block is left unchanged.
func (a *RigidAdapter) Project(m *mat.Dense) (*mat.Dense, error) {
	rotBlock := mat.NewDense(3, 3, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rotBlock.Set(row, col, m.At(row, col))
		}
	}

	projRot, err := spatial.Project(rotBlock)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(4, 4, nil)
	out.Copy(m)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.Set(row, col, projRot.At(row, col))
		}
	}
	return out, nil
}

// InitialGuess projects the cross-covariance of the centered clouds onto
// SO(3) for the rotation block and uses the centroid difference for the
// translation block.
func (a *RigidAdapter) InitialGuess(src, dst *mat.Dense) (*mat.Dense, error) {
	csrc, meanSrc := spatial.ZeroMean(src)
	cdst, meanDst := spatial.ZeroMean(dst)

	var outer mat.Dense
	outer.Mul(cdst.T(), csrc)
	rot, err := spatial.Project(&outer)
	if err != nil {
		return nil, err
	}

	m := mat.NewDense(4, 4, nil)
	m.Set(3, 3, 1)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, rot.At(row, col))
		}
		m.Set(row, 3, meanDst[row]-meanSrc[row])
	}
	return m, nil
}

func (a *RigidAdapter) ComputeTerms(src, dst *mat.Dense) ([]*fracgm.Fractional, error) {
	n, _ := src.Dims()
	sigmaSq := a.cfg.NoiseBound * a.cfg.NoiseBound

	terms := make([]*fracgm.Fractional, n)
	for i := 0; i < n; i++ {
		p := [3]float64{src.At(i, 0), src.At(i, 1), src.At(i, 2)}
		q := [3]float64{dst.At(i, 0), dst.At(i, 1), dst.At(i, 2)}
		terms[i] = fracgm.NewFractional(fracgm.NewR2Sym(rigidTermMatrix(p, q, sigmaSq)), a.cfg.C)
	}
	return terms, nil
}

func (a *RigidAdapter) SolveX(sys *mat.Dense) (*mat.VecDense, error) {
	return fracgm.SolveSchur(sys)
}

// rigidTermMatrix builds M_i = N_iᵀN_i / σ² for correspondence (p, q),
// where N_i ∈ R^{3x13} has columns 0..8 = kron(pᵀ, I3), columns 9..11 = I3,
// and column 12 = -q. N_iᵀN_i is formed with SymOuterK (s = x*xᵀ for
// x = N_iᵀ) rather than a Dense.Mul, so the result is typed as the
// symmetric matrix it provably is.
func rigidTermMatrix(p, q [3]float64, sigmaSq float64) *mat.SymDense {
	id3 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	pRow := mat.NewDense(1, 3, []float64{p[0], p[1], p[2]})

	var kron mat.Dense
	kron.Kronecker(pRow, id3)

	n := mat.NewDense(3, rigidDim, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 9; c++ {
			n.Set(r, c, kron.At(r, c))
		}
		n.Set(r, 9+r, 1)
		n.Set(r, 12, -q[r])
	}

	var outer mat.SymDense
	outer.SymOuterK(1, n.T())

	m := mat.NewSymDense(rigidDim, nil)
	m.ScaleSym(1/sigmaSq, &outer)
	return m
}
