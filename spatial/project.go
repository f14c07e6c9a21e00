// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spatial provides the point-cloud linear-algebra primitives shared
// by every FracGM problem adapter: projection onto SO(3), zero-mean
// centering, and translation-invariant measurement generation.
package spatial

import (
	"fmt"
	"math"

	"github.com/StephLin/FracGM/fracgm"
	"gonum.org/v1/gonum/mat"
)

// Project returns the nearest proper rotation to m (an element of SO(3)),
// computed from the singular value decomposition m = U Σ Vᵀ. When
// det(U Vᵀ) > 0 the result is U Vᵀ; otherwise U Vᵀ has a reflection (det
// -1) and the result is U·diag(1,1,-1)·Vᵀ, which corrects it to the nearest
// proper rotation in Frobenius norm. Project fails if m is not 3x3 or its
// SVD does not converge.
func Project(m *mat.Dense) (*mat.Dense, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return nil, fmt.Errorf("spatial: Project requires a 3x3 matrix, got %dx%d", r, c)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return nil, fmt.Errorf("spatial: SVD factorization failed: %w", fracgm.Condition(math.Inf(1)))
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	rot := mat.NewDense(3, 3, nil)
	rot.Mul(&u, v.T())

	if mat.Det(rot) > 0 {
		return rot, nil
	}

	reflect := mat.NewDiagDense(3, []float64{1, 1, -1})
	var tmp mat.Dense
	tmp.Mul(&u, reflect)
	rot.Mul(&tmp, v.T())
	return rot, nil
}
