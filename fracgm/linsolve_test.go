// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSolveSchurLastCoordinateIsOne(t *testing.T) {
	sys := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})

	y, err := SolveSchur(sys)
	if err != nil {
		t.Fatalf("SolveSchur: %v", err)
	}
	if !floats.EqualWithinAbs(y.AtVec(2), 1, 1e-9) {
		t.Errorf("y[n-1] = %v, want 1", y.AtVec(2))
	}
}

func TestSolveSchurDetectsZeroPivot(t *testing.T) {
	// A singular system has no LU solution, so the Schur pivot can never be
	// recovered; SolveSchur must surface this as DegenerateSystem rather
	// than propagating NaNs.
	sys := mat.NewDense(2, 2, []float64{1, 1, 1, 1})

	_, err := SolveSchur(sys)
	if err == nil {
		t.Fatal("SolveSchur on singular system: want error, got nil")
	}
	var cond Condition
	if !errors.As(err, &cond) {
		t.Fatalf("SolveSchur error = %v, want a Condition", err)
	}
}
