// SPDX-License-Identifier: MIT

package subset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/lvcorr/table"
)

// Filter maps a column name to its accepted values. A nil or empty Filter accepts every row.
type Filter map[string][]string

// Keys returns the filter column names in lexicographic order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Annotation renders the accepted values of key, comma-joined in the given order.
func (f Filter) Annotation(key string) string {
	return strings.Join(f[key], ",")
}

// Tuples returns the size of the cross-join (product of the value-list lengths).
func (f Filter) Tuples() int {
	if len(f) == 0 {
		return 0
	}
	n := 1
	for _, vals := range f {
		n *= len(vals)
	}

	return n
}

// Validate reports ErrInvalidFilterSpec for an empty column name. A column with no accepted
// values is well formed: its cross-join is empty and it accepts no row.
func (f Filter) Validate() error {
	for _, k := range f.Keys() {
		if k == "" {
			return fmt.Errorf("empty column name: %w", ErrInvalidFilterSpec)
		}
	}

	return nil
}

// match returns the rows of t whose filter-column tuple lies in the cross-join of f.
// Missing cells never match. Columns are assumed present (validated by the caller).
func (f Filter) match(t *table.Table) (*roaring.Bitmap, error) {
	rows := t.AllRows()
	for _, k := range f.Keys() {
		col, err := t.Column(k)
		if err != nil {
			return nil, err
		}
		rows.And(inSet(col, f[k]))
		if rows.IsEmpty() {
			break
		}
	}

	return rows, nil
}

// inSet returns the observed rows of col whose rendered cell is one of values.
func inSet(col *table.Column, values []string) *roaring.Bitmap {
	accept := make(map[string]struct{}, len(values))
	for _, v := range values {
		accept[v] = struct{}{}
	}

	out := roaring.New()
	it := col.Observed().Iterator()
	for it.HasNext() {
		i := it.Next()
		if cell, ok := col.Cell(int(i)); ok {
			if _, hit := accept[cell]; hit {
				out.Add(i)
			}
		}
	}

	return out
}
