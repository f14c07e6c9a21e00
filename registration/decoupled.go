// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registration

import (
	"github.com/StephLin/FracGM/fracgm"
	"github.com/StephLin/FracGM/spatial"
	"gonum.org/v1/gonum/mat"
)

// TIMPolicy selects how DecoupledSolver derives translation-invariant
// measurements before estimating rotation.
type TIMPolicy int

const (
	// TIMChain differences each point from its cyclic successor, giving N
	// measurements. This is the default policy.
	TIMChain TIMPolicy = iota
	// TIMComplete differences every unordered pair of points, giving
	// N(N-1)/2 measurements.
	TIMComplete
)

// DecoupledSolver composes a rotation-only fit on translation-invariant
// measurements with a translation-only fit on the rotated source cloud
// (spec.md §4.7), instead of solving the coupled 13-dimensional system in
// one shot (see RigidAdapter for that alternative).
type DecoupledSolver struct {
	Rotation    *RotationAdapter
	Translation *TranslationAdapter
	TIMPolicy   TIMPolicy
}

// NewDecoupledSolver builds a decoupled rigid solver. The rotation stage
// runs on TIMs, whose noise is the difference of two measurements and so
// doubles the effective noise bound; the translation stage is configured
// with the caller-supplied noise bound, which TranslationAdapter's term
// matrices do not use. The default TIM policy is
// TIMChain; override it with SetTIMPolicy.
func NewDecoupledSolver(maxIter int, tol float64, opts ...fracgm.Option) *DecoupledSolver {
	translationCfg := fracgm.NewConfig(maxIter, tol, opts...)

	rotationOpts := append(append([]fracgm.Option(nil), opts...), fracgm.WithNoiseBound(translationCfg.NoiseBound*2))
	rotationCfg := fracgm.NewConfig(maxIter, tol, rotationOpts...)

	return &DecoupledSolver{
		Rotation:    &RotationAdapter{cfg: rotationCfg},
		Translation: &TranslationAdapter{cfg: translationCfg},
		TIMPolicy:   TIMChain,
	}
}

// SetTIMPolicy overrides the default CHAIN TIM policy.
func (s *DecoupledSolver) SetTIMPolicy(p TIMPolicy) { s.TIMPolicy = p }

// Solve returns the 4x4 homogeneous transform aligning src onto dst.
func (s *DecoupledSolver) Solve(src, dst *mat.Dense) (*mat.Dense, error) {
	var srcTIMs, dstTIMs *mat.Dense
	switch s.TIMPolicy {
	case TIMComplete:
		srcTIMs = spatial.CompleteTIMs(src)
		dstTIMs = spatial.CompleteTIMs(dst)
	default:
		srcTIMs = spatial.ChainTIMs(src)
		dstTIMs = spatial.ChainTIMs(dst)
	}

	rot, err := s.Rotation.Solve(srcTIMs, dstTIMs)
	if err != nil {
		return nil, err
	}

	n, _ := src.Dims()
	rotatedSrc := mat.NewDense(n, 3, nil)
	rotatedSrc.Mul(src, rot.T())

	trans, err := s.Translation.Solve(rotatedSrc, dst)
	if err != nil {
		return nil, err
	}

	transform := mat.NewDense(4, 4, nil)
	transform.Set(3, 3, 1)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			transform.Set(row, col, rot.At(row, col))
		}
		transform.Set(row, 3, trans.At(row, 0))
	}
	return transform, nil
}
