// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spatial

import "gonum.org/v1/gonum/mat"

// ZeroMean returns a copy of the N x 3 point cloud p with its column-wise
// mean subtracted from every row, along with the removed mean.
func ZeroMean(p *mat.Dense) (centered *mat.Dense, mean []float64) {
	n, d := p.Dims()

	mean = make([]float64, d)
	for j := 0; j < d; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += p.At(i, j)
		}
		mean[j] = sum / float64(n)
	}

	centered = mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, p.At(i, j)-mean[j])
		}
	}
	return centered, mean
}
