// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures and utilities for kernels.
//   • Offer a wrapper that hides *Dense so fallback paths can be compared against fast paths.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcorr/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the generic At/Set paths in code under test.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense filled row-major from vals or fails the test.
func MustDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.NoError(t, m.Set(i, j, vals[i*c+j]))
		}
	}

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// CompareClose asserts equal shapes and elementwise closeness; NaN must match NaN.
func CompareClose(t *testing.T, a, b matrix.Matrix, tol float64) {
	t.Helper()
	require.Equal(t, a.Rows(), b.Rows())
	require.Equal(t, a.Cols(), b.Cols())
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			av, bv := MustAt(t, a, i, j), MustAt(t, b, i, j)
			if math.IsNaN(av) || math.IsNaN(bv) {
				require.True(t, math.IsNaN(av) && math.IsNaN(bv), "(%d,%d): %v vs %v", i, j, av, bv)
				continue
			}
			require.InDelta(t, av, bv, tol, "(%d,%d)", i, j)
		}
	}
}

// randomColumns returns c columns of r rows drawn from a seeded source, with roughly
// missingRate of the cells set to NaN.
func randomColumns(seed int64, r, c int, missingRate float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = make([]float64, r)
		for i := range cols[j] {
			if rng.Float64() < missingRate {
				cols[j][i] = math.NaN()
				continue
			}
			// Correlate neighbouring columns a little so r is not always near zero.
			base := rng.NormFloat64()
			if j > 0 && !math.IsNaN(cols[j-1][i]) {
				base += 0.5 * cols[j-1][i]
			}
			cols[j][i] = 100 + 3*base
		}
	}

	return cols
}
