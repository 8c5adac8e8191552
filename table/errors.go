// SPDX-License-Identifier: MIT
// Package table: sentinel error set.
// Every message is prefixed with "table: ..."; callers match with errors.Is.

package table

import "errors"

var (
	// ErrNotATable is returned when a nil *Table is passed where a dataset is required.
	ErrNotATable = errors.New("table: input is not a table")

	// ErrKeyMismatch indicates two tables do not share the same key attribute.
	ErrKeyMismatch = errors.New("table: key attribute mismatch")

	// ErrColumnNotFound indicates a referenced column (by name or position) is absent.
	ErrColumnNotFound = errors.New("table: column not found")

	// ErrDuplicateColumn indicates two columns share one name.
	ErrDuplicateColumn = errors.New("table: duplicate column name")

	// ErrEmptyColumnName indicates a column was declared with an empty name.
	ErrEmptyColumnName = errors.New("table: empty column name")

	// ErrLengthMismatch indicates columns of different lengths in one table.
	ErrLengthMismatch = errors.New("table: column length mismatch")

	// ErrNilColumn indicates a nil *Column was passed to New.
	ErrNilColumn = errors.New("table: nil column")

	// ErrNotNumeric indicates a numeric view was requested from a categorical column.
	ErrNotNumeric = errors.New("table: column is not numeric")
)
