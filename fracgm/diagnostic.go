// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import "gonum.org/v1/gonum/mat"

// IterationRecord captures the solver's full state at one point in the
// loop: the raw parameter vector, its matrix encoding, the solution
// projected onto the feasible set, the auxiliary variables β and μ, and
// the ψ-norm convergence residual.
type IterationRecord struct {
	AlphaVec  *mat.VecDense
	AlphaMat  *mat.Dense
	AlphaProj *mat.Dense
	Beta      []float64
	Mu        []float64
	Psi       float64
}

// Diagnostic is the result of SolveDiagnostic: the recorded state of every
// iteration (including the pre-iteration snapshot), the final projected
// solution, and the number of iterations actually run.
type Diagnostic struct {
	Iterations []IterationRecord
	Solution   *mat.Dense
	NIters     int
}

// SolveDiagnostic runs the same control flow as Solve but additionally
// records an IterationRecord before the first update and after every
// subsequent one, so callers can inspect convergence behavior instead of
// only the final answer.
func SolveDiagnostic(p Problem, src, dst *mat.Dense, cfg Config) (Diagnostic, error) {
	if err := checkShape(src, dst); err != nil {
		return Diagnostic{}, err
	}

	terms, err := p.ComputeTerms(src, dst)
	if err != nil {
		return Diagnostic{}, err
	}

	initMat, err := p.InitialGuess(src, dst)
	if err != nil {
		return Diagnostic{}, err
	}
	x := p.MatToVec(initMat)
	updateCache(terms, x)
	beta, mu := solveBetaMu(terms)

	record, err := recordIteration(p, x, beta, mu, terms)
	if err != nil {
		return Diagnostic{}, err
	}
	iterations := []IterationRecord{record}

	nIters := 0
	for iter := 0; iter < cfg.MaxIter; iter++ {
		nIters++
		sys := assemble(p.Dim(), terms, beta, mu)

		x, err = p.SolveX(sys)
		if err != nil {
			return Diagnostic{}, err
		}
		updateCache(terms, x)

		record, err = recordIteration(p, x, beta, mu, terms)
		if err != nil {
			return Diagnostic{}, err
		}
		iterations = append(iterations, record)

		if record.Psi < cfg.Tol {
			break
		}
		beta, mu = solveBetaMu(terms)
	}

	solution, err := p.Project(p.VecToMat(x))
	if err != nil {
		return Diagnostic{}, err
	}

	return Diagnostic{
		Iterations: iterations,
		Solution:   solution,
		NIters:     nIters,
	}, nil
}

func recordIteration(p Problem, x *mat.VecDense, beta, mu []float64, terms []*Fractional) (IterationRecord, error) {
	m := p.VecToMat(x)
	proj, err := p.Project(m)
	if err != nil {
		return IterationRecord{}, err
	}
	return IterationRecord{
		AlphaVec:  x,
		AlphaMat:  m,
		AlphaProj: proj,
		Beta:      append([]float64(nil), beta...),
		Mu:        append([]float64(nil), mu...),
		Psi:       psiNorm(beta, mu, terms),
	}, nil
}
