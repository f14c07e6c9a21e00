// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	defaultNoiseBound = 0.1
	defaultC          = 1.0
)

// Config holds the parameters shared by every FracGM specialization:
// iteration budget, convergence tolerance, the Geman-McClure noise bound σ,
// and scale constant c.
type Config struct {
	MaxIter    int
	Tol        float64
	NoiseBound float64
	C          float64
}

// Option adjusts a Config away from its defaults (noise bound 0.1, c 1.0).
type Option func(*Config)

// WithNoiseBound overrides the default noise bound σ (0.1).
func WithNoiseBound(sigma float64) Option {
	return func(c *Config) { c.NoiseBound = sigma }
}

// WithC overrides the default Geman-McClure scale constant c (1.0).
func WithC(c float64) Option {
	return func(cfg *Config) { cfg.C = c }
}

// NewConfig builds a Config from the required iteration budget and
// tolerance plus any Options; later Options take precedence over earlier
// ones.
func NewConfig(maxIter int, tol float64, opts ...Option) Config {
	cfg := Config{
		MaxIter:    maxIter,
		Tol:        tol,
		NoiseBound: defaultNoiseBound,
		C:          defaultC,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func checkShape(src, dst *mat.Dense) error {
	sr, sc := src.Dims()
	dr, dc := dst.Dims()
	if sr != dr || sc != 3 || dc != 3 {
		return ErrShapeMismatch
	}
	return nil
}

// Solve runs the FracGM loop (spec.md §4.3, §4.9) to completion, either by
// convergence (ψ < tol) or by exhausting cfg.MaxIter iterations, and
// returns the adapter's projected solution. Exhaustion is not an error:
// FracGM is a heuristic that may legitimately hit the iteration cap.
func Solve(p Problem, src, dst *mat.Dense, cfg Config) (*mat.Dense, error) {
	if err := checkShape(src, dst); err != nil {
		return nil, err
	}

	terms, err := p.ComputeTerms(src, dst)
	if err != nil {
		return nil, err
	}

	initMat, err := p.InitialGuess(src, dst)
	if err != nil {
		return nil, err
	}
	x := p.MatToVec(initMat)
	updateCache(terms, x)
	beta, mu := solveBetaMu(terms)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		sys := assemble(p.Dim(), terms, beta, mu)

		x, err = p.SolveX(sys)
		if err != nil {
			return nil, err
		}
		updateCache(terms, x)

		if psiNorm(beta, mu, terms) < cfg.Tol {
			break
		}
		beta, mu = solveBetaMu(terms)
	}

	return p.Project(p.VecToMat(x))
}

func updateCache(terms []*Fractional, x *mat.VecDense) {
	for _, t := range terms {
		t.UpdateCache(x)
	}
}

// solveBetaMu recomputes the auxiliary variables β = f/h and μ = 1/h for
// every term at its currently cached x.
func solveBetaMu(terms []*Fractional) (beta, mu []float64) {
	beta = make([]float64, len(terms))
	mu = make([]float64, len(terms))
	for i, t := range terms {
		h := t.H()
		beta[i] = t.F() / h
		mu[i] = 1 / h
	}
	return beta, mu
}

// assemble builds the dim x dim system matrix Σ_i μ_i*f_mat_i - μ_i*β_i*h_mat_i.
func assemble(dim int, terms []*Fractional, beta, mu []float64) *mat.Dense {
	sys := mat.NewDense(dim, dim, nil)
	for t, term := range terms {
		fMat, hMat := term.FMat(), term.HMat()
		muT, betaT := mu[t], beta[t]
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				sys.Set(i, j, sys.At(i, j)+muT*fMat.At(i, j)-muT*betaT*hMat.At(i, j))
			}
		}
	}
	return sys
}

// psiNorm computes the FracGM residual used to test convergence: it
// combines the *pre-update* β, μ with the *post-update* f, h, measuring the
// KKT-style residual of the fractional reformulation.
func psiNorm(beta, mu []float64, terms []*Fractional) float64 {
	var sum float64
	for i, t := range terms {
		f, h := t.F(), t.H()
		a := -f + beta[i]*h
		b := -1 + mu[i]*h
		sum += a*a + b*b
	}
	return math.Sqrt(sum)
}
