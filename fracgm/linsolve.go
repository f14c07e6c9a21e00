// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SolveSchur solves sys*y = e_{n-1} (the n-th standard basis vector, n =
// sys's dimension) via LU factorization and rescales y so its last
// coordinate equals one. This is the "last-coordinate-equals-one" linear
// solve shared by every adapter's SolveX: the parameter vector's final
// entry is a fixed scale auxiliary, and dividing by the Schur pivot
// y[n-1] restores that constraint (spec.md §4.4-§4.6, §9).
//
// SolveSchur returns a Condition error if the LU factorization is exactly
// singular or the Schur pivot is zero or not finite. A system that mat.LU
// reports as near-singular (a finite mat.Condition) is still solved and
// rescaled, since mat computes the solution in that case.
func SolveSchur(sys *mat.Dense) (*mat.VecDense, error) {
	n, _ := sys.Dims()

	e := mat.NewVecDense(n, nil)
	e.SetVec(n-1, 1)

	var lu mat.LU
	lu.Factorize(sys)

	y := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(y, false, e); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, Condition(math.Inf(1))
		}
	}

	schur := y.AtVec(n - 1)
	if schur == 0 || math.IsNaN(schur) || math.IsInf(schur, 0) {
		return nil, Condition(0)
	}

	y.ScaleVec(1/schur, y)
	return y, nil
}
