// SPDX-License-Identifier: MIT
// Package matrix - pairwise-complete Pearson correlation of data columns.
//
// Purpose:
//   - Correlate every column pair of a data matrix where NaN marks a missing cell, each pair
//     using only the rows observed in both columns.
//   - Express the whole computation as four matrix products so one pass serves all pairs.
//
// Closed form (per pair i,j over rows complete in both):
//
//	M   = observed mask (1/0), X₀ = data with missing cells zero-filled, centered per column
//	N   = MᵀM            n_ij
//	Sx  = X₀ᵀM           Σx_i over rows where x_j is observed
//	Sxx = (X₀∘X₀)ᵀM      Σx_i² over the same rows
//	Sxy = X₀ᵀX₀          Σx_i·x_j
//	r   = (n·Sxy − Sx[i,j]·Sx[j,i]) / √((n·Sxx[i,j] − Sx[i,j]²)(n·Sxx[j,i] − Sx[j,i]²))
//
// Numerics:
//   - Each column is centered on the mean of its observed cells, computed as the first observed
//     value plus the mean residual so a constant column becomes exact zeros. Pearson r is
//     shift-invariant; centering keeps the sums near the data's spread instead of its magnitude.
//   - The centering is exact only for pairs that keep every observed row of both columns. A pair
//     that loses rows to the partner's missing cells is recomputed from its own rows with
//     stats.PearsonTest, so it matches the per-pair test exactly.
//   - A variance term at or below stats.VarianceTol·n·Sxx counts as zero (cancellation residue).
//
// Determinism:
//   - Fixed loop orders throughout; single-threaded.

package matrix

import (
	"math"

	"github.com/katalvlaran/lvcorr/stats"
)

// PairwiseCorrelation returns Pearson r, pairwise-complete counts and two-sided p-values
// for every column pair of X.
// Implementation:
//   - Stage 1: validate X; build M, shifted X₀ and X₀∘X₀.
//   - Stage 2: N, Sx, Sxx, Sxy via Transpose/Mul/Hadamard.
//   - Stage 3: r per pair from the closed form, clamped to [-1, 1]; p via stats.TwoSidedP.
//     Pairs with fewer complete rows than either column observes use stats.PearsonTest.
//
// Behavior highlights:
//   - R and P are symmetric; N holds counts as float64.
//   - n < 2 or a zero variance term leaves r NaN; n < 3 leaves p NaN.
//   - The diagonal of P is NaN (a column against itself is not a test).
//   - Zero columns give 0×0 outputs; zero rows give N = 0 and NaN R/P.
//   - Outputs allow NaN (finite-only policy off).
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c²), Space O(r*c + c²). Recomputed pairs cost O(r) each.
func PairwiseCorrelation(X Matrix) (R, N, P *Dense, err error) {
	// Stage 1 (Validate).
	if err = ValidateNotNil(X); err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	rows, cols := X.Rows(), X.Cols()
	if R, err = nanDense(cols); err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	if P, err = nanDense(cols); err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	if N, err = newDenseZeroOK(cols, cols); err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	N.validateNaNInf = false
	if rows == 0 || cols == 0 {
		return R, N, P, nil
	}

	data, mask, x0, err := maskAndCenter(X)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	x0sq, err := Hadamard(x0, x0)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}

	// Stage 2 (Sums).
	x0t, err := Transpose(x0)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	maskT, err := Transpose(mask)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	x0sqT, err := Transpose(x0sq)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	nm, err := Mul(maskT, mask)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	sx, err := Mul(x0t, mask)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	sxx, err := Mul(x0sqT, mask)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	sxy, err := Mul(x0t, x0)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opPairwise, err)
	}
	cN, cSx, cSxx, cSxy := nm.(*Dense).data, sx.(*Dense).data, sxx.(*Dense).data, sxy.(*Dense).data

	// Stage 3 (Coefficients, upper triangle mirrored).
	var (
		i, j, ij, ji int
		n, r         float64
	)
	for i = 0; i < cols; i++ {
		for j = i; j < cols; j++ {
			ij, ji = i*cols+j, j*cols+i
			n = cN[ij]
			N.data[ij], N.data[ji] = n, n
			if i != j && (n < cN[i*cols+i] || n < cN[j*cols+j]) {
				test, terr := stats.PearsonTest(data[i], data[j])
				if terr != nil {
					return nil, nil, nil, matrixErrorf(opPairwise, terr)
				}
				R.data[ij], R.data[ji] = test.R, test.R
				P.data[ij], P.data[ji] = test.P, test.P
				continue
			}
			r = pairR(n, cSxy[ij], cSx[ij], cSx[ji], cSxx[ij], cSxx[ji])
			R.data[ij], R.data[ji] = r, r
			if i == j {
				continue
			}
			p := stats.TwoSidedP(r, int(n))
			P.data[ij], P.data[ji] = p, p
		}
	}

	return R, N, P, nil
}

// pairR evaluates the closed form for one pair; NaN for n < 2 or a degenerate variance.
func pairR(n, sxy, sxi, sxj, sxxi, sxxj float64) float64 {
	if n < 2 {
		return math.NaN()
	}
	vi := n*sxxi - sxi*sxi
	vj := n*sxxj - sxj*sxj
	if vi <= stats.VarianceTol*n*sxxi || vj <= stats.VarianceTol*n*sxxj {
		return math.NaN()
	}

	return stats.ClampUnit((n*sxy - sxi*sxj) / math.Sqrt(vi*vj))
}

// maskAndCenter copies X into columns and builds the 0/1 observed mask and the
// zero-filled, per-column centered data.
func maskAndCenter(X Matrix) (data [][]float64, mask, x0 *Dense, err error) {
	rows, cols := X.Rows(), X.Cols()
	if mask, err = NewDense(rows, cols); err != nil {
		return nil, nil, nil, err
	}
	if x0, err = NewDense(rows, cols); err != nil {
		return nil, nil, nil, err
	}

	data = make([][]float64, cols)
	var (
		v, first, resid float64
		seen            int
	)
	for j := 0; j < cols; j++ {
		col := make([]float64, rows)
		first, resid, seen = 0, 0, 0
		for i := 0; i < rows; i++ {
			if v, err = X.At(i, j); err != nil {
				return nil, nil, nil, err
			}
			col[i] = v
			if math.IsNaN(v) {
				continue
			}
			if seen == 0 {
				first = v
			}
			seen++
			resid += v - first
		}
		if seen > 0 {
			resid /= float64(seen)
		}
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			mask.data[i*cols+j] = 1
			x0.data[i*cols+j] = (v - first) - resid
		}
		data[j] = col
	}

	return data, mask, x0, nil
}

// nanDense allocates an n×n matrix filled with NaN (finite-only policy off).
func nanDense(n int) (*Dense, error) {
	m, err := newDenseZeroOK(n, n)
	if err != nil {
		return nil, err
	}
	m.validateNaNInf = false
	for k := range m.data {
		m.data[k] = math.NaN()
	}

	return m, nil
}
