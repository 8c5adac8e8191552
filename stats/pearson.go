// SPDX-License-Identifier: MIT

package stats

import "math"

// Test is the outcome of one Pearson correlation test.
type Test struct {
	R  float64 // coefficient in [-1, 1]; NaN when undefined
	P  float64 // two-sided p-value; NaN when undefined
	T  float64 // t statistic; NaN when undefined
	DF int     // N - 2 (may be negative for N < 2)
	N  int     // pairwise-complete observation count
}

// VarianceTol is the relative floor below which a centered sum of squares counts as zero.
// It absorbs the rounding residue a constant column leaves behind, so constant data reads
// as degenerate however its value rounds.
const VarianceTol = 1e-12

// PearsonTest correlates x and y over rows where both are non-NaN.
// Implementation:
//   - Stage 1: validate equal lengths.
//   - Stage 2: one pass for the complete-pair count and means, each column shifted by its
//     value in the first complete row (a constant column becomes exact zeros).
//   - Stage 3: second pass for centered cross and square sums (stable two-pass form).
//   - Stage 4: r, t and p; a centered square sum at or below VarianceTol of the shifted
//     one, or N < 2, leaves R NaN; N < 3 leaves P NaN.
//
// Errors:
//   - ErrLengthMismatch.
//
// Complexity:
//   - Time O(n), Space O(1).
func PearsonTest(x, y []float64) (Test, error) {
	// Stage 1 (Validate).
	if len(x) != len(y) {
		return Test{}, ErrLengthMismatch
	}

	// Stage 2 (Shifted means over complete pairs).
	var (
		n              int
		x0, y0, sx, sy float64
	)
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		if n == 0 {
			x0, y0 = x[i], y[i]
		}
		n++
		sx += x[i] - x0
		sy += y[i] - y0
	}
	res := Test{N: n, DF: n - 2, R: math.NaN(), P: math.NaN(), T: math.NaN()}
	if n < 2 {
		return res, nil
	}
	mx, my := sx/float64(n), sy/float64(n)

	// Stage 3 (Centered sums; qx, qy keep the uncentered shifted squares for the floor).
	var sxy, sxx, syy, qx, qy, dx, dy float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		dx, dy = x[i]-x0, y[i]-y0
		qx += dx * dx
		qy += dy * dy
		dx -= mx
		dy -= my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	// Stage 4 (Coefficient and test).
	if sxx <= VarianceTol*qx || syy <= VarianceTol*qy {
		return res, nil
	}
	res.R = ClampUnit(sxy / math.Sqrt(sxx*syy))
	res.T = TStatistic(res.R, n)
	res.P = TwoSidedP(res.R, n)

	return res, nil
}

// ClampUnit pins rounding overshoot of a correlation coefficient back into [-1, 1].
func ClampUnit(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
