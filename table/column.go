// SPDX-License-Identifier: MIT

// Package table - Column storage and cell rendering.
//
// Purpose:
//   - Hold one named vector of values (numeric or categorical) with its observed-row mask.
//   - Render cells as strings for join predicates (filter cross-joins, key joins).
//
// Numeric policy:
//   - NaN is the single missing marker for numeric columns; ±Inf is an observed value.
//   - Categorical columns keep the missing flag in the mask only (the stored string is "").

package table

import (
	"math"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
)

// Kind classifies column storage.
type Kind uint8

const (
	// Numeric columns hold float64 values; NaN marks a missing cell.
	Numeric Kind = iota
	// Categorical columns hold strings; missing cells are tracked by the observed mask.
	Categorical
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is an immutable named vector.
type Column struct {
	name     string
	kind     Kind
	num      []float64       // Numeric storage (len == n)
	str      []string        // Categorical storage (len == n)
	observed *roaring.Bitmap // rows with a non-missing value
}

// NewNumeric builds a numeric column from values (copied). NaN entries are missing.
// Complexity: O(n).
func NewNumeric(name string, values []float64) *Column {
	buf := make([]float64, len(values))
	copy(buf, values)

	mask := roaring.New()
	for i, v := range buf {
		if !math.IsNaN(v) {
			mask.Add(uint32(i))
		}
	}

	return &Column{name: name, kind: Numeric, num: buf, observed: mask}
}

// NewCategorical builds a categorical column from values (copied).
// missing may be nil (every cell observed) or have len(values) entries; a true entry
// marks that row missing and blanks its stored string.
// Complexity: O(n).
func NewCategorical(name string, values []string, missing []bool) *Column {
	buf := make([]string, len(values))
	copy(buf, values)

	mask := roaring.New()
	for i := range buf {
		if missing != nil && i < len(missing) && missing[i] {
			buf[i] = ""
			continue
		}
		mask.Add(uint32(i))
	}

	return &Column{name: name, kind: Categorical, str: buf, observed: mask}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the storage kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.num)
	}
	return len(c.str)
}

// Values returns the numeric backing slice. It is read-only by contract.
// Returns ErrNotNumeric for categorical columns.
func (c *Column) Values() ([]float64, error) {
	if c.kind != Numeric {
		return nil, ErrNotNumeric
	}
	return c.num, nil
}

// Observed returns the mask of non-missing rows. It is read-only by contract;
// Clone it before combining with other masks in place.
func (c *Column) Observed() *roaring.Bitmap { return c.observed }

// IsMissing reports whether row i is missing (out-of-range rows count as missing).
func (c *Column) IsMissing(i int) bool {
	if i < 0 || i >= c.Len() {
		return true
	}
	return !c.observed.Contains(uint32(i))
}

// Cell renders row i as a join-comparable string.
// Numeric cells use the shortest round-trip 'g' format ("4", "21.5", "1e+06").
// The second result is false for missing or out-of-range cells.
func (c *Column) Cell(i int) (string, bool) {
	if c.IsMissing(i) {
		return "", false
	}
	if c.kind == Numeric {
		return strconv.FormatFloat(c.num[i], 'g', -1, 64), true
	}
	return c.str[i], true
}

// take copies the rows listed in idx (ascending) into a fresh column.
func (c *Column) take(idx []uint32) *Column {
	switch c.kind {
	case Numeric:
		vals := make([]float64, len(idx))
		for k, i := range idx {
			vals[k] = c.num[i]
		}
		return NewNumeric(c.name, vals)
	default:
		vals := make([]string, len(idx))
		missing := make([]bool, len(idx))
		for k, i := range idx {
			vals[k] = c.str[i]
			missing[k] = !c.observed.Contains(i)
		}
		return NewCategorical(c.name, vals, missing)
	}
}

// clone returns a deep copy (storage and mask).
func (c *Column) clone() *Column {
	out := &Column{name: c.name, kind: c.kind, observed: c.observed.Clone()}
	if c.num != nil {
		out.num = make([]float64, len(c.num))
		copy(out.num, c.num)
	}
	if c.str != nil {
		out.str = make([]string, len(c.str))
		copy(out.str, c.str)
	}
	return out
}
