// SPDX-License-Identifier: MIT

// Package subset - Resolve: validation, row restriction and projection.
//
// Purpose:
//   - Run every input check before any join so failures are fatal and cheap.
//   - Restrict rows with a filter (directly, or through metadata and the shared key).
//   - Project the selected numeric columns in selection order.
//
// Determinism:
//   - Dataset row order is preserved; projection follows the selection order.

package subset

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/lvcorr/table"
)

// Operation tags for uniform error wrapping.
const (
	opResolve = "subset.Resolve"
	opRows    = "subset.Rows"
)

func subsetErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Resolve reduces ds to the rows accepted by f (optionally through meta) and the columns
// named by sel.
// Implementation:
//   - Stage 1: Validate (ds present, filter well formed, keys agree, filter columns and
//     selection resolve) before touching any row.
//   - Stage 2: Compute the accepted row set (Rows).
//   - Stage 3: Take those rows and project the selection.
//
// Behavior highlights:
//   - An empty row set is a valid result (zero rows, selected columns kept).
//   - The result keeps ds's key attribute only when the key column is selected.
//
// Errors:
//   - table.ErrNotATable, ErrInvalidFilterSpec, table.ErrKeyMismatch,
//     table.ErrColumnNotFound, ErrNonNumericColumn.
//
// Complexity:
//   - Time O(rows*|f| + |rows kept|*|sel|).
func Resolve(ds, meta *table.Table, f Filter, sel Selection) (*table.Table, error) {
	// Stage 1 (Validate).
	names, err := Validate(ds, meta, f, sel)
	if err != nil {
		return nil, subsetErrorf(opResolve, err)
	}

	// Stage 2 (Rows).
	rows, err := Rows(ds, meta, f)
	if err != nil {
		return nil, subsetErrorf(opResolve, err)
	}

	// Stage 3 (Take + project).
	reduced := ds
	if rows.GetCardinality() != uint64(ds.Rows()) {
		reduced = ds.Take(rows)
	}
	out, err := reduced.Select(names...)
	if err != nil {
		return nil, subsetErrorf(opResolve, err)
	}

	return out, nil
}

// Validate runs the pre-join checks of Resolve and returns the resolved selection names.
// Order: ds, filter shape, key agreement, filter columns against the governing table
// (meta if present, else ds), selection against ds.
func Validate(ds, meta *table.Table, f Filter, sel Selection) ([]string, error) {
	if ds == nil {
		return nil, table.ErrNotATable
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	governing := ds
	if meta != nil {
		if meta.Key() == "" || meta.Key() != ds.Key() {
			return nil, fmt.Errorf("dataset key %q, metadata key %q: %w", ds.Key(), meta.Key(), table.ErrKeyMismatch)
		}
		governing = meta
	}
	for _, k := range f.Keys() {
		if !governing.Has(k) {
			return nil, fmt.Errorf("filter column %q: %w", k, table.ErrColumnNotFound)
		}
	}

	return sel.Names(ds)
}

// Rows returns the dataset rows accepted by f, evaluated on ds directly or, when meta is
// given, on meta with the matching keys mapped back to ds rows. Inputs are assumed valid.
func Rows(ds, meta *table.Table, f Filter) (*roaring.Bitmap, error) {
	if len(f) == 0 {
		return ds.AllRows(), nil
	}
	if meta == nil {
		rows, err := f.match(ds)
		if err != nil {
			return nil, subsetErrorf(opRows, err)
		}
		return rows, nil
	}

	metaRows, err := f.match(meta)
	if err != nil {
		return nil, subsetErrorf(opRows, err)
	}
	metaKey, err := meta.Column(meta.Key())
	if err != nil {
		return nil, subsetErrorf(opRows, err)
	}
	keys := make([]string, 0, metaRows.GetCardinality())
	it := metaRows.Iterator()
	for it.HasNext() {
		if cell, ok := metaKey.Cell(int(it.Next())); ok {
			keys = append(keys, cell)
		}
	}

	dsKey, err := ds.Column(ds.Key())
	if err != nil {
		return nil, subsetErrorf(opRows, err)
	}

	return inSet(dsKey, keys), nil
}
