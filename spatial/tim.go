// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spatial

import "gonum.org/v1/gonum/mat"

// ChainTIMs builds one translation-invariant measurement per point by
// differencing each point from its cyclic successor: T[i] = P[i] - P[(i+1)
// mod N]. TIMs are invariant to translation, which lets rotation be
// estimated independently of it.
func ChainTIMs(p *mat.Dense) *mat.Dense {
	n, d := p.Dims()
	t := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		j := i + 1
		if j == n {
			j = 0
		}
		for k := 0; k < d; k++ {
			t.Set(i, k, p.At(i, k)-p.At(j, k))
		}
	}
	return t
}

// CompleteTIMs builds one translation-invariant measurement per unordered
// pair of points, in ascending (i, j) row order.
func CompleteTIMs(p *mat.Dense) *mat.Dense {
	n, d := p.Dims()
	t := mat.NewDense(n*(n-1)/2, d, nil)

	row := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := 0; k < d; k++ {
				t.Set(row, k, p.At(i, k)-p.At(j, k))
			}
			row++
		}
	}
	return t
}
