// SPDX-License-Identifier: MIT

// Package stats holds the scalar statistics behind the correlation pipeline.
//
// The package provides:
//
//   - TwoSidedP: two-sided p-value of a Pearson r against 0 with a Student t on n-2 df.
//   - PearsonTest: an explicit per-pair test over pairwise-complete observations.
//   - Adjust: multiple-testing correction of a p-value vector (Holm, Hochberg, Hommel,
//     Bonferroni, Benjamini-Hochberg, Benjamini-Yekutieli, none).
//
// Missing data is NaN throughout. Degenerate inputs (fewer than three complete pairs,
// zero variance) produce NaN statistics rather than errors.
package stats
