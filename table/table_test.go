// SPDX-License-Identifier: MIT

package table_test

import (
	"math"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcorr/table"
)

func fixture(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New("id",
		table.NewCategorical("id", []string{"a", "b", "c", "d"}, nil),
		table.NewNumeric("x", []float64{1, 2, math.NaN(), 4}),
		table.NewNumeric("y", []float64{10, 20, 30, 40}),
		table.NewCategorical("grp", []string{"g1", "g2", "g1", ""}, []bool{false, false, false, true}),
	)
	require.NoError(t, err)

	return tb
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	x := table.NewNumeric("x", []float64{1, 2})
	cases := []struct {
		name string
		key  string
		cols []*table.Column
		want error
	}{
		{"nil column", "", []*table.Column{x, nil}, table.ErrNilColumn},
		{"empty name", "", []*table.Column{table.NewNumeric("", nil)}, table.ErrEmptyColumnName},
		{"duplicate", "", []*table.Column{x, table.NewNumeric("x", []float64{3, 4})}, table.ErrDuplicateColumn},
		{"ragged", "", []*table.Column{x, table.NewNumeric("y", []float64{3})}, table.ErrLengthMismatch},
		{"missing key", "id", []*table.Column{x}, table.ErrColumnNotFound},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := table.New(tc.key, tc.cols...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTable_Accessors(t *testing.T) {
	t.Parallel()

	tb := fixture(t)
	require.Equal(t, 4, tb.Rows())
	require.Equal(t, 4, tb.NumCols())
	require.Equal(t, "id", tb.Key())
	require.Equal(t, []string{"id", "x", "y", "grp"}, tb.Names())
	require.True(t, tb.Has("grp"))
	require.False(t, tb.Has("z"))

	c, err := tb.ColumnAt(1)
	require.NoError(t, err)
	require.Equal(t, "x", c.Name())

	_, err = tb.ColumnAt(9)
	require.ErrorIs(t, err, table.ErrColumnNotFound)
	_, err = tb.Column("z")
	require.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestTable_Select(t *testing.T) {
	t.Parallel()

	tb := fixture(t)

	sel, err := tb.Select("y", "x")
	require.NoError(t, err)
	require.Equal(t, []string{"y", "x"}, sel.Names())
	require.Equal(t, "", sel.Key(), "key column not projected")

	withKey, err := tb.Select("id", "y")
	require.NoError(t, err)
	require.Equal(t, "id", withKey.Key())

	none, err := tb.Select()
	require.NoError(t, err)
	require.Equal(t, 4, none.Rows())

	_, err = tb.Select("x", "nope")
	require.ErrorIs(t, err, table.ErrColumnNotFound)
	_, err = tb.Select("x", "x")
	require.ErrorIs(t, err, table.ErrDuplicateColumn)
}

func TestTable_Take(t *testing.T) {
	t.Parallel()

	tb := fixture(t)
	sub := tb.Take(roaring.BitmapOf(3, 1, 2, 99))
	require.Equal(t, 3, sub.Rows())
	require.Equal(t, "id", sub.Key())

	id, err := sub.Column("id")
	require.NoError(t, err)
	cell, ok := id.Cell(0)
	require.True(t, ok)
	require.Equal(t, "b", cell)

	x, err := sub.Column("x")
	require.NoError(t, err)
	require.True(t, x.IsMissing(1))
	require.Equal(t, uint64(2), x.Observed().GetCardinality())

	grp, err := sub.Column("grp")
	require.NoError(t, err)
	require.True(t, grp.IsMissing(2))

	empty := tb.Take(roaring.New())
	require.Equal(t, 0, empty.Rows())
	require.Equal(t, 4, empty.NumCols())
}

func TestTable_CloneIsDeep(t *testing.T) {
	t.Parallel()

	tb := fixture(t)
	cp := tb.Clone()

	orig, err := tb.Column("y")
	require.NoError(t, err)
	dup, err := cp.Column("y")
	require.NoError(t, err)

	ov, err := orig.Values()
	require.NoError(t, err)
	dv, err := dup.Values()
	require.NoError(t, err)
	require.Equal(t, ov, dv)
	require.NotSame(t, &ov[0], &dv[0])
	require.NotSame(t, orig.Observed(), dup.Observed())
	require.Equal(t, uint64(4), tb.AllRows().GetCardinality())
}
