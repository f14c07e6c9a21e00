// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import "gonum.org/v1/gonum/mat"

// Fractional wraps an R2 term with a positive constant c, representing one
// Geman-McClure loss term f(x)/h(x) in the fractional-programming
// reformulation: numerator f(x) = c^2 * x^T A x and denominator h(x) =
// x^T A x + c^2, where A is the term's R2 matrix.
type Fractional struct {
	r2   R2
	c    float64
	fMat *mat.SymDense
}

// NewFractional builds a Fractional from an R2 term and the Geman-McClure
// scale constant c (usually 1).
func NewFractional(r2 R2, c float64) *Fractional {
	n, _ := r2.Mat().Dims()
	fMat := mat.NewSymDense(n, nil)
	fMat.ScaleSym(c*c, r2.Mat())
	return &Fractional{r2: r2, c: c, fMat: fMat}
}

// UpdateCache refreshes the underlying R2 term's cache against x.
func (f *Fractional) UpdateCache(x *mat.VecDense) { f.r2.UpdateCache(x) }

// F returns the numerator c^2 * x^T A x at the last cached x.
func (f *Fractional) F() float64 { return f.c * f.c * f.r2.Cache() }

// H returns the denominator x^T A x + c^2 at the last cached x.
func (f *Fractional) H() float64 { return f.r2.Cache() + f.c*f.c }

// FMat returns c^2 * A, the matrix used to assemble the numerator's
// contribution to the FracGM system matrix.
func (f *Fractional) FMat() *mat.SymDense { return f.fMat }

// HMat returns A, the matrix used to assemble the denominator's
// contribution to the FracGM system matrix.
func (f *Fractional) HMat() *mat.SymDense { return f.r2.Mat() }
