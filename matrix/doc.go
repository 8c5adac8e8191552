// SPDX-License-Identifier: MIT

// Package matrix provides dense row-major matrices and the closed-form pairwise
// correlation kernel used for full correlation matrices.
//
// The matrix package provides:
//
//   - Dense, a bounds-checked row-major float64 matrix with an optional finite-only policy.
//   - Canonical kernels (Mul, Transpose) with *Dense fast paths and interface fallbacks.
//   - PairwiseCorrelation: Pearson r, pairwise-complete n and two-sided p for every column
//     pair of a data matrix in one pass of matrix products, with NaN marking missing cells.
//
// Missing data:
//
//	Data matrices built with NewFromColumns accept NaN. Every other constructor keeps
//	the finite-only policy, so NaN can only enter through that explicit door.
//
// Complexity:
//
//	PairwiseCorrelation on an r×c matrix costs four r×c by c×c products: O(r·c²).
package matrix
