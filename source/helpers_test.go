// SPDX-License-Identifier: MIT

package source_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcorr/table"
)

const carsCSV = `model,mpg,cyl,wt
Mazda RX4,21,6,2.62
Datsun 710,22.8,4,NA
Valiant,,6,3.46
Duster 360,14.3,8,3.57
`

// requireNumeric asserts col is numeric with want values (NaN compared as missing).
func requireNumeric(t *testing.T, tb *table.Table, name string, want []float64) {
	t.Helper()
	col, err := tb.Column(name)
	require.NoError(t, err)
	require.Equal(t, table.Numeric, col.Kind(), name)
	got, err := col.Values()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			require.True(t, math.IsNaN(got[i]), "%s[%d] = %v, want NaN", name, i, got[i])
			continue
		}
		require.Equal(t, want[i], got[i], "%s[%d]", name, i)
	}
}

func requireCars(t *testing.T, tb *table.Table) {
	t.Helper()
	require.Equal(t, 4, tb.Rows())
	require.Equal(t, []string{"model", "mpg", "cyl", "wt"}, tb.Names())

	model, err := tb.Column("model")
	require.NoError(t, err)
	require.Equal(t, table.Categorical, model.Kind())
	cell, ok := model.Cell(2)
	require.True(t, ok)
	require.Equal(t, "Valiant", cell)

	nan := math.NaN()
	requireNumeric(t, tb, "mpg", []float64{21, 22.8, nan, 14.3})
	requireNumeric(t, tb, "cyl", []float64{6, 4, 6, 8})
	requireNumeric(t, tb, "wt", []float64{2.62, nan, 3.46, 3.57})
}
