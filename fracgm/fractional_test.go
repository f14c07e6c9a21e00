// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestFractionalCacheCoherence(t *testing.T) {
	a := mat.NewSymDense(2, []float64{1, 0, 0, 2})
	c := 1.5

	f := NewFractional(NewR2Sym(a), c)
	x := mat.NewVecDense(2, []float64{2, 3})
	f.UpdateCache(x)

	xax := 1.0*2*2 + 2.0*3*3 // x^T A x for diag(1,2)
	wantF := c * c * xax
	wantH := xax + c*c

	if !floats.EqualWithinAbs(f.F(), wantF, 1e-9) {
		t.Errorf("F() = %v, want %v", f.F(), wantF)
	}
	if !floats.EqualWithinAbs(f.H(), wantH, 1e-9) {
		t.Errorf("H() = %v, want %v", f.H(), wantH)
	}
}

func TestFractionalMatRelation(t *testing.T) {
	a := mat.NewSymDense(2, []float64{1, 0.25, 0.25, 2})
	c := 2.0

	f := NewFractional(NewR2Sym(a), c)

	n, _ := f.FMat().Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := c * c * f.HMat().At(i, j)
			if !floats.EqualWithinAbs(f.FMat().At(i, j), want, 1e-9) {
				t.Errorf("FMat()[%d][%d] = %v, want c^2*HMat() = %v", i, j, f.FMat().At(i, j), want)
			}
		}
	}
}
