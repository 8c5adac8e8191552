// SPDX-License-Identifier: MIT

// Package lvcorr computes pairwise Pearson correlations over tabular data, with row
// filtering (direct or through a keyed metadata table), target columns, a parallel target
// dispatcher and multiple-testing adjustment, and returns a long-format result.
//
// What is in the box?
//
//	table/     column-major Dataset with roaring-bitmap missing masks
//	subset/    Filter (cross-join of accepted values), Selection, Resolve
//	matrix/    Dense kernels + PairwiseCorrelation (all pairs as four matrix products)
//	stats/     Student-t p-values, PearsonTest, Adjust (holm … BY)
//	workers/   bounded pool with a process-wide default (Start / Stop)
//	corr/      Matrix, Target, TargetSequential, TargetMap and the PairTable result
//	source/    CSV (+zstd/gzip/lz4), Arrow, Postgres, S3 and MinIO loaders
//	cmd/lvcorr the CLI (matrix, target, targets, serve, config)
//
// Output schema (every entry point):
//
//	Target, Correlation, n, r, p, q, <one column per filter key>
//
// Quick example:
//
//	ds, _ := source.ReadFile("mtcars.csv", source.WithKey("model"))
//	out, _ := corr.Matrix(ds, subset.Columns("mpg", "wt", "hp"))
//	_ = out.WriteCSV(os.Stdout)
//
// A runnable walkthrough lives in examples/mtcars.
package lvcorr
