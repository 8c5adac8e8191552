// SPDX-License-Identifier: MIT

package subset_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
)

// cars is a small keyed dataset with one categorical and one numeric filter column.
func cars(t *testing.T) *table.Table {
	t.Helper()
	ds, err := table.New("id",
		table.NewCategorical("id", []string{"c1", "c2", "c3", "c4", "c5", "c6"}, nil),
		table.NewNumeric("mpg", []float64{21, 22.8, 21.4, 18.7, 18.1, 14.3}),
		table.NewNumeric("cyl", []float64{6, 4, 6, 8, 6, 8}),
		table.NewNumeric("am", []float64{1, 1, 0, 0, 0, math.NaN()}),
		table.NewNumeric("wt", []float64{2.62, 2.32, 3.215, 3.44, 3.46, 3.57}),
		table.NewCategorical("make", []string{"mazda", "datsun", "hornet", "hornet", "valiant", "duster"}, nil),
	)
	require.NoError(t, err)

	return ds
}

// lineage is metadata keyed like cars, carrying a column cars lacks.
func lineage(t *testing.T) *table.Table {
	t.Helper()
	meta, err := table.New("id",
		table.NewCategorical("id", []string{"c1", "c2", "c3", "c4", "c5", "c6", "c9"}, nil),
		table.NewCategorical("lineage", []string{"A", "B", "B", "A", "B", "C", "B"}, nil),
	)
	require.NoError(t, err)

	return meta
}

func column(t *testing.T, tb *table.Table, name string) []float64 {
	t.Helper()
	c, err := tb.Column(name)
	require.NoError(t, err)
	v, err := c.Values()
	require.NoError(t, err)

	return v
}

func TestResolve_NoFilter(t *testing.T) {
	t.Parallel()

	out, err := subset.Resolve(cars(t), nil, nil, subset.Columns("wt", "mpg"))
	require.NoError(t, err)
	require.Equal(t, []string{"wt", "mpg"}, out.Names())
	require.Equal(t, 6, out.Rows())

	def, err := subset.Resolve(cars(t), nil, nil, subset.Selection{})
	require.NoError(t, err)
	require.Equal(t, []string{"mpg", "cyl", "am", "wt"}, def.Names())

	pos, err := subset.Resolve(cars(t), nil, nil, subset.Positions(2, 1, 2))
	require.NoError(t, err)
	require.Equal(t, []string{"cyl", "mpg"}, pos.Names())
}

func TestResolve_CrossJoinFilter(t *testing.T) {
	t.Parallel()

	f := subset.Filter{"cyl": {"6", "8"}, "am": {"0"}}
	out, err := subset.Resolve(cars(t), nil, f, subset.Columns("mpg", "cyl", "am"))
	require.NoError(t, err)
	require.Equal(t, []float64{21.4, 18.7, 18.1}, column(t, out, "mpg"))

	// Every kept row satisfies the predicate; row c6 (am missing) never matches.
	for i, cyl := range column(t, out, "cyl") {
		require.Contains(t, []float64{6, 8}, cyl)
		require.Equal(t, 0.0, column(t, out, "am")[i])
	}

	none, err := subset.Resolve(cars(t), nil, subset.Filter{"make": {"ferrari"}}, subset.Columns("mpg"))
	require.NoError(t, err)
	require.Equal(t, 0, none.Rows())
	require.Equal(t, []string{"mpg"}, none.Names())
}

func TestResolve_MetadataIndirection(t *testing.T) {
	t.Parallel()

	ds := cars(t)
	out, err := subset.Resolve(ds, lineage(t), subset.Filter{"lineage": {"B"}}, subset.Columns("mpg", "wt"))
	require.NoError(t, err)

	// Metadata lineage B covers c2, c3, c5 (and c9, absent from the dataset).
	require.Equal(t, []float64{22.8, 21.4, 18.1}, column(t, out, "mpg"))
	require.Equal(t, []float64{2.32, 3.215, 3.46}, column(t, out, "wt"))
	require.Equal(t, "", out.Key())

	rows, err := subset.Rows(ds, lineage(t), subset.Filter{"lineage": {"B"}})
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 4}, rows.ToArray())
}

func TestResolve_ValidationErrors(t *testing.T) {
	t.Parallel()

	ds := cars(t)
	otherKey, err := table.New("code",
		table.NewCategorical("code", []string{"x"}, nil),
		table.NewCategorical("lineage", []string{"A"}, nil),
	)
	require.NoError(t, err)

	cases := []struct {
		name string
		ds   *table.Table
		meta *table.Table
		f    subset.Filter
		sel  subset.Selection
		want error
	}{
		{"nil dataset", nil, nil, nil, subset.Selection{}, table.ErrNotATable},
		{"empty filter name", ds, nil, subset.Filter{"": {"1"}}, subset.Selection{}, subset.ErrInvalidFilterSpec},
		{"key mismatch", ds, otherKey, subset.Filter{"lineage": {"A"}}, subset.Selection{}, table.ErrKeyMismatch},
		{"filter column absent", ds, nil, subset.Filter{"lineage": {"A"}}, subset.Selection{}, table.ErrColumnNotFound},
		{"filter column absent in meta", ds, lineage(t), subset.Filter{"cyl": {"6"}}, subset.Selection{}, table.ErrColumnNotFound},
		{"selection absent", ds, nil, nil, subset.Columns("hp"), table.ErrColumnNotFound},
		{"position out of range", ds, nil, nil, subset.Positions(42), table.ErrColumnNotFound},
		{"categorical selection", ds, nil, nil, subset.Columns("make"), subset.ErrNonNumericColumn},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := subset.Resolve(tc.ds, tc.meta, tc.f, tc.sel)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestResolve_EmptyValueListAcceptsNoRows(t *testing.T) {
	t.Parallel()

	ds := cars(t)
	for name, meta := range map[string]*table.Table{"direct": nil, "metadata": lineage(t)} {
		f := subset.Filter{"cyl": {}}
		if meta != nil {
			f = subset.Filter{"lineage": {}}
		}
		require.NoError(t, f.Validate(), name)
		require.Equal(t, 0, f.Tuples(), name)

		out, err := subset.Resolve(ds, meta, f, subset.Columns("mpg", "wt"))
		require.NoError(t, err, name)
		require.Equal(t, 0, out.Rows(), name)
		require.Equal(t, []string{"mpg", "wt"}, out.Names(), name)
		require.Equal(t, "", f.Annotation(f.Keys()[0]), name)
	}

	// One empty column empties the whole cross-join.
	out, err := subset.Resolve(ds, nil, subset.Filter{"cyl": {"6"}, "am": {}}, subset.Selection{})
	require.NoError(t, err)
	require.Equal(t, 0, out.Rows())
}

func TestFilter_KeysAndAnnotation(t *testing.T) {
	t.Parallel()

	f := subset.Filter{"cyl": {"6", "8"}, "am": {"0"}, "gear": {"3", "4", "5"}}
	require.Equal(t, []string{"am", "cyl", "gear"}, f.Keys())
	require.Equal(t, "6,8", f.Annotation("cyl"))
	require.Equal(t, 6, f.Tuples())
	require.NoError(t, f.Validate())
	require.Equal(t, 0, subset.Filter(nil).Tuples())
}

func TestSelection_With(t *testing.T) {
	t.Parallel()

	ds := cars(t)
	sel, err := subset.Columns("wt", "mpg").With(ds, "cyl", "mpg")
	require.NoError(t, err)
	names, err := sel.Names(ds)
	require.NoError(t, err)
	require.Equal(t, []string{"wt", "mpg", "cyl"}, names)
}
