// SPDX-License-Identifier: MIT

// Package table provides the column-major dataset consumed by the correlation pipeline.
//
// What & Why:
//
//	A Table is an immutable set of equally long, uniquely named columns. Numeric columns
//	hold float64 values where NaN marks a missing observation; categorical columns hold
//	strings with an explicit missing flag. Every column carries a roaring bitmap of the
//	rows that are observed, so pairwise-complete counts reduce to bitmap intersections.
//
//	A Table may designate a key column (its sort/key attribute). Two tables can only be
//	joined on the key when both declare the same key attribute.
//
// Immutability:
//
//	No method mutates a Table in place. Select shares column storage (columns expose no
//	mutators), Take and Clone copy it. Callers that hand a Table to concurrent workers may
//	still Clone it to give each worker private storage.
//
// Complexity:
//
//	New: O(rows*cols) for mask construction. Select: O(k). Take: O(|rows|*cols).
package table
