// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registration

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TestRigidAdapterRecoversRotationAndTranslation is scenario S2: dst = R*src
// + t on noiseless data must be recovered to within 1e-5 in both blocks.
func TestRigidAdapterRecoversRotationAndTranslation(t *testing.T) {
	src := spherePoints(100)
	wantR := rotZ(0.6)
	wantT := []float64{0.3, 0.2, 0.6}

	n, _ := src.Dims()
	rotated := applyRotation(wantR, src)
	dst := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			dst.Set(i, k, rotated.At(i, k)+wantT[k])
		}
	}

	a := NewRigidAdapter(100, 1e-9)
	transform, err := a.Solve(src, dst)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	gotR := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			gotR.Set(i, j, transform.At(i, j))
		}
	}
	var diff mat.Dense
	diff.Sub(gotR, wantR)
	if n := mat.Norm(&diff, 2); n > 1e-5 {
		t.Errorf("||R-R*||_2 = %v, want < 1e-5", n)
	}

	gotT := []float64{transform.At(0, 3), transform.At(1, 3), transform.At(2, 3)}
	if !floats.EqualApprox(gotT, wantT, 1e-5) {
		t.Errorf("t = %v, want %v", gotT, wantT)
	}

	if transform.At(3, 3) != 1 {
		t.Errorf("transform[3][3] = %v, want 1", transform.At(3, 3))
	}
}

func TestRigidAdapterProjectLeavesTranslationAlone(t *testing.T) {
	a := NewRigidAdapter(10, 1e-6)

	m := mat.NewDense(4, 4, nil)
	m.Set(3, 3, 1)
	// A deliberately non-orthogonal rotation block so Project must correct it.
	for i := 0; i < 3; i++ {
		m.Set(i, i, 1.1)
	}
	m.Set(0, 3, 5)
	m.Set(1, 3, -2)
	m.Set(2, 3, 9)

	out, err := a.Project(m)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	wantT := []float64{5, -2, 9}
	gotT := []float64{out.At(0, 3), out.At(1, 3), out.At(2, 3)}
	if !floats.EqualApprox(gotT, wantT, 1e-12) {
		t.Errorf("translation block = %v, want %v", gotT, wantT)
	}

	rotBlock := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rotBlock.Set(i, j, out.At(i, j))
		}
	}
	if det := mat.Det(rotBlock); math.Abs(det-1) > 1e-9 {
		t.Errorf("det(rotation block) = %v, want 1", det)
	}
}
