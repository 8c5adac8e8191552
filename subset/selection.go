// SPDX-License-Identifier: MIT

package subset

import (
	"fmt"

	"github.com/katalvlaran/lvcorr/table"
)

// Selection is an ordered set of columns, by name or by 0-based position.
// The zero value selects every numeric column except the key column.
type Selection struct {
	names     []string
	positions []int
	byPos     bool
}

// Columns selects columns by name.
func Columns(names ...string) Selection {
	return Selection{names: append([]string(nil), names...)}
}

// Positions selects columns by 0-based position in the dataset's column order.
func Positions(idx ...int) Selection {
	return Selection{positions: append([]int(nil), idx...), byPos: true}
}

// IsEmpty reports whether the selection defers to the default (all numeric, non-key).
func (s Selection) IsEmpty() bool {
	if s.byPos {
		return len(s.positions) == 0
	}
	return len(s.names) == 0
}

// Names resolves the selection against t: positions map to names, duplicates collapse
// to their first occurrence, and every resolved column must be numeric.
// Errors: table.ErrColumnNotFound, ErrNonNumericColumn.
func (s Selection) Names(t *table.Table) ([]string, error) {
	if s.IsEmpty() {
		return defaultNames(t), nil
	}

	raw := s.names
	if s.byPos {
		raw = make([]string, 0, len(s.positions))
		for _, p := range s.positions {
			col, err := t.ColumnAt(p)
			if err != nil {
				return nil, err
			}
			raw = append(raw, col.Name())
		}
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind() != table.Numeric {
			return nil, fmt.Errorf("%q is %s: %w", name, col.Kind(), ErrNonNumericColumn)
		}
		out = append(out, name)
	}

	return out, nil
}

// With returns a copy of the selection resolved against t with extra appended when absent.
// Used to pull target columns into a projection.
func (s Selection) With(t *table.Table, extra ...string) (Selection, error) {
	names, err := s.Names(t)
	if err != nil {
		return Selection{}, err
	}
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	for _, e := range extra {
		if _, ok := present[e]; !ok {
			names = append(names, e)
			present[e] = struct{}{}
		}
	}

	return Columns(names...), nil
}

func defaultNames(t *table.Table) []string {
	out := make([]string, 0, t.NumCols())
	for _, name := range t.Names() {
		if name == t.Key() {
			continue
		}
		if col, err := t.Column(name); err == nil && col.Kind() == table.Numeric {
			out = append(out, name)
		}
	}

	return out
}
