// SPDX-License-Identifier: MIT

// Package subset reduces a dataset to the rows and columns one correlation call works on.
//
// A Filter names, per column, the values a row may take. Semantically it is the cross-join
// (Cartesian product) of those value lists used as a multi-column IN predicate: a row
// passes when its tuple of filter-column cells is one of the product's tuples. That is
// the same as every filter cell being accepted for its column, which is how Resolve
// evaluates it: one roaring bitmap per filter column, intersected.
//
// When a metadata table is supplied the predicate runs against the metadata instead, and
// the surviving metadata keys select dataset rows through the shared key column.
//
// A Selection names the numeric columns that participate, by name or by 0-based position.
package subset
