// SPDX-License-Identifier: MIT

// Package corr computes pairwise Pearson correlations over a table and returns them in
// long format: one row per (Target, Correlation) pair with n, r, p and adjusted q.
//
// Entry points:
//
//   - Matrix: every pair of the selected columns, one closed-form pass (matrix.PairwiseCorrelation),
//     symmetric duplicates removed.
//   - TargetSequential: one target column against every selected column, one explicit test per pair.
//   - Target: the same, submitted to the worker pool as one task.
//   - TargetMap: two or more targets, one pool task per target, merged; per-target failures are
//     reported in Result.Outcomes and never abort sibling targets.
//
// Every entry point shares the same front half (subset.Resolve: filter rows, optionally through a
// metadata table, project the selection) and back half (assemble: dedupe, adjust, annotate with
// the filter, apply the self policy, sort).
//
// Missing values are NaN; every pair uses the rows complete in both of its columns. Degenerate
// pairs (n < 2, zero variance) carry NaN statistics and are left out of the adjustment family.
package corr
