// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registration

import (
	"github.com/StephLin/FracGM/fracgm"
	"github.com/StephLin/FracGM/spatial"
	"gonum.org/v1/gonum/mat"
)

const translationDim = 4

// TranslationAdapter implements fracgm.Problem for the translation-only
// specialization: given rotation-aligned correspondences, estimate the
// best-fit translation under the Geman-McClure loss.
//
// The parameter vector x has 4 entries: x[0:3] is the translation t, and
// x[3] is fixed to 1.
type TranslationAdapter struct {
	cfg fracgm.Config
}

// NewTranslationAdapter builds a translation-only adapter with the given
// iteration budget and convergence tolerance. Noise bound defaults to 0.1
// and c to 1.0; override with fracgm.WithNoiseBound / fracgm.WithC. The
// noise bound is kept in the configuration but does not enter the
// translation term matrices (see translationTermMatrix); only c does.
func NewTranslationAdapter(maxIter int, tol float64, opts ...fracgm.Option) *TranslationAdapter {
	return &TranslationAdapter{cfg: fracgm.NewConfig(maxIter, tol, opts...)}
}

// Solve estimates the translation aligning src onto dst.
func (a *TranslationAdapter) Solve(src, dst *mat.Dense) (*mat.Dense, error) {
	return fracgm.Solve(a, src, dst, a.cfg)
}

// SolveDiagnostic is Solve with full iteration-by-iteration diagnostics.
func (a *TranslationAdapter) SolveDiagnostic(src, dst *mat.Dense) (fracgm.Diagnostic, error) {
	return fracgm.SolveDiagnostic(a, src, dst, a.cfg)
}

func (a *TranslationAdapter) Dim() int { return translationDim }

func (a *TranslationAdapter) MatToVec(m *mat.Dense) *mat.VecDense {
	v := mat.NewVecDense(translationDim, nil)
	for i := 0; i < 3; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	v.SetVec(3, 1)
	return v
}

func (a *TranslationAdapter) VecToMat(x *mat.VecDense) *mat.Dense {
	t := mat.NewDense(3, 1, nil)
	for i := 0; i < 3; i++ {
		t.Set(i, 0, x.AtVec(i))
	}
	return t
}

// Project is the identity: the translation parameter space has no manifold
// constraint to restore.
func (a *TranslationAdapter) Project(m *mat.Dense) (*mat.Dense, error) {
	return m, nil
}

func (a *TranslationAdapter) InitialGuess(src, dst *mat.Dense) (*mat.Dense, error) {
	_, meanSrc := spatial.ZeroMean(src)
	_, meanDst := spatial.ZeroMean(dst)

	t := mat.NewDense(3, 1, nil)
	for i := 0; i < 3; i++ {
		t.Set(i, 0, meanDst[i]-meanSrc[i])
	}
	return t, nil
}

func (a *TranslationAdapter) ComputeTerms(src, dst *mat.Dense) ([]*fracgm.Fractional, error) {
	n, _ := src.Dims()

	terms := make([]*fracgm.Fractional, n)
	for i := 0; i < n; i++ {
		d := [3]float64{
			src.At(i, 0) - dst.At(i, 0),
			src.At(i, 1) - dst.At(i, 1),
			src.At(i, 2) - dst.At(i, 2),
		}
		terms[i] = fracgm.NewFractional(fracgm.NewR2Sym(translationTermMatrix(d)), a.cfg.C)
	}
	return terms, nil
}

func (a *TranslationAdapter) SolveX(sys *mat.Dense) (*mat.VecDense, error) {
	return fracgm.SolveSchur(sys)
}

// translationTermMatrix builds M_i = I4 with the off-diagonal block
// augmented by d = p-q, so that xᵀM_ix = ||t + d||² when x[3] = 1 — the
// squared residual of the translation fit. Built directly as a SymDense via
// SetSym (only the upper triangle is ever written, matching mat.SymDense's
// storage contract) since M_i here comes from hand-specified entries rather
// than an outer product.
func translationTermMatrix(d [3]float64) *mat.SymDense {
	m := mat.NewSymDense(translationDim, nil)
	for k := 0; k < translationDim; k++ {
		m.SetSym(k, k, 1)
	}
	for k := 0; k < 3; k++ {
		m.SetSym(k, 3, d[k])
	}
	m.SetSym(3, 3, d[0]*d[0]+d[1]*d[1]+d[2]*d[2])
	return m
}
