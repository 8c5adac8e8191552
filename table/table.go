// SPDX-License-Identifier: MIT

// Package table - Table construction, projection and row selection.
//
// Purpose:
//   - Validate the dataset invariants once, at construction (unique names, equal lengths, key present).
//   - Offer the two relational primitives the subset engine needs: project (Select) and restrict (Take).
//
// Determinism:
//   - Column order is the declaration order; Take preserves ascending row order.

package table

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Operation tags for uniform error wrapping.
const (
	opNew      = "New"
	opSelect   = "Select"
	opColumn   = "Column"
	opColumnAt = "ColumnAt"
)

// tableErrorf wraps err with an operation tag, keeping the sentinel matchable via errors.Is.
func tableErrorf(tag string, err error) error {
	return fmt.Errorf("table.%s: %w", tag, err)
}

// Table is an immutable column-major dataset with an optional key attribute.
type Table struct {
	key   string         // key column name ("" when the table has no key attribute)
	cols  []*Column      // declaration order
	index map[string]int // name -> position in cols
	rows  int            // common column length
}

// New validates and assembles a Table.
// Implementation:
//   - Stage 1: reject nil / unnamed / duplicate columns.
//   - Stage 2: require every column to have the same length.
//   - Stage 3: require the key column (if key != "") to be present.
//
// Errors:
//   - ErrNilColumn, ErrEmptyColumnName, ErrDuplicateColumn, ErrLengthMismatch, ErrColumnNotFound.
//
// Complexity:
//   - Time O(cols), Space O(cols). Columns are not copied.
func New(key string, cols ...*Column) (*Table, error) {
	t := &Table{
		key:   key,
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}

	// Stage 1 + 2 (Validate columns).
	for i, c := range cols {
		if c == nil {
			return nil, tableErrorf(opNew, fmt.Errorf("position %d: %w", i, ErrNilColumn))
		}
		if c.name == "" {
			return nil, tableErrorf(opNew, fmt.Errorf("position %d: %w", i, ErrEmptyColumnName))
		}
		if _, dup := t.index[c.name]; dup {
			return nil, tableErrorf(opNew, fmt.Errorf("%q: %w", c.name, ErrDuplicateColumn))
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, tableErrorf(opNew, fmt.Errorf("%q has %d rows, want %d: %w", c.name, c.Len(), t.rows, ErrLengthMismatch))
		}
		t.index[c.name] = len(t.cols)
		t.cols = append(t.cols, c)
	}

	// Stage 3 (Validate key attribute).
	if key != "" {
		if _, ok := t.index[key]; !ok {
			return nil, tableErrorf(opNew, fmt.Errorf("key %q: %w", key, ErrColumnNotFound))
		}
	}

	return t, nil
}

// MustNew is New that panics on error. Intended for fixtures and examples.
func MustNew(key string, cols ...*Column) *Table {
	t, err := New(key, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Key returns the key attribute ("" when absent).
func (t *Table) Key() string { return t.key }

// Names returns column names in declaration order (fresh slice).
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}
	return out
}

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the column named name or ErrColumnNotFound.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, tableErrorf(opColumn, fmt.Errorf("%q: %w", name, ErrColumnNotFound))
	}
	return t.cols[i], nil
}

// ColumnAt returns the column at 0-based position i or ErrColumnNotFound.
func (t *Table) ColumnAt(i int) (*Column, error) {
	if i < 0 || i >= len(t.cols) {
		return nil, tableErrorf(opColumnAt, fmt.Errorf("position %d of %d: %w", i, len(t.cols), ErrColumnNotFound))
	}
	return t.cols[i], nil
}

// Select projects the named columns in the given order.
// The key attribute survives only when the key column is among names.
// Errors: ErrColumnNotFound for the first absent name, ErrDuplicateColumn for repeats.
// Complexity: O(len(names)); column storage is shared.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	key := ""
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, tableErrorf(opSelect, fmt.Errorf("%q: %w", name, ErrColumnNotFound))
		}
		if name == t.key {
			key = t.key
		}
		cols = append(cols, t.cols[i])
	}

	out, err := New(key, cols...)
	if err != nil {
		return nil, tableErrorf(opSelect, err)
	}
	if len(cols) == 0 {
		out.rows = t.rows
	}

	return out, nil
}

// Take restricts the table to the rows present in rows, in ascending row order.
// Row ids outside [0, Rows()) are ignored. The result owns copied storage.
// Complexity: O(|rows| * cols).
func (t *Table) Take(rows *roaring.Bitmap) *Table {
	idx := make([]uint32, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		i := it.Next()
		if int(i) >= t.rows {
			break // iterator is ascending
		}
		idx = append(idx, i)
	}

	out := &Table{
		key:   t.key,
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
		rows:  len(idx),
	}
	for i, c := range t.cols {
		out.cols[i] = c.take(idx)
		out.index[c.name] = i
	}

	return out
}

// AllRows returns a bitmap holding every row id of t.
func (t *Table) AllRows() *roaring.Bitmap {
	rb := roaring.New()
	rb.AddRange(0, uint64(t.rows))
	return rb
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		key:   t.key,
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
		rows:  t.rows,
	}
	for i, c := range t.cols {
		out.cols[i] = c.clone()
		out.index[c.name] = i
	}
	return out
}
