// Copyright 2024 the FracGM authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracgm

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned by Solve and SolveDiagnostic when src and dst
// do not have the same number of rows, or either does not have exactly 3
// columns.
var ErrShapeMismatch = errors.New("fracgm: src and dst must have matching row counts and exactly 3 columns")

// Condition reports that a factorization used by the engine or an adapter
// failed: the LU solve or the Schur-pivot rescale in SolveSchur, or the SVD
// in spatial.Project. It implements error, so callers can recognize a
// DegenerateSystem failure with errors.As. The numeric value is +Inf when
// a factorization fails outright (an exactly singular LU or an SVD that
// does not converge), and 0 when the Schur pivot is zero or not finite.
type Condition float64

func (c Condition) Error() string {
	return fmt.Sprintf("fracgm: degenerate system (condition %v)", float64(c))
}
