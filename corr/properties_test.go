// SPDX-License-Identifier: MIT

package corr_test

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcorr/corr"
	"github.com/katalvlaran/lvcorr/stats"
	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/workers"
)

var five = subset.Columns("mpg", "cyl", "disp", "hp", "wt")

func TestMatrix_KnownValues(t *testing.T) {
	t.Parallel()

	out, err := corr.Matrix(mtcars(t), five)
	require.NoError(t, err)

	p, ok := out.Lookup("mpg", "wt")
	require.True(t, ok)
	require.Equal(t, 32, p.N)
	require.InDelta(t, -0.8676594, p.R, 1e-6)
	require.InDelta(t, 1.294e-10, p.P, 1e-13)

	p, ok = out.Lookup("cyl", "mpg")
	require.True(t, ok)
	require.InDelta(t, -0.8521620, p.R, 1e-6)
}

func TestMatrix_SymmetricDedupe(t *testing.T) {
	t.Parallel()

	out, err := corr.Matrix(mtcars(t), five)
	require.NoError(t, err)
	require.Equal(t, 10, out.Len(), "5 choose 2")

	seen := map[[2]string]bool{}
	for _, p := range out.Pairs {
		require.Less(t, p.Target, p.Correlation)
		k := [2]string{p.Target, p.Correlation}
		require.False(t, seen[k])
		require.False(t, seen[[2]string{p.Correlation, p.Target}])
		seen[k] = true
	}
}

func TestCrossConsistency(t *testing.T) {
	t.Parallel()

	ds := mtcars(t, "0:mpg", "3:wt", "7:hp", "7:mpg")
	m, err := corr.Matrix(ds, five, corr.WithSelf(corr.SelfYes))
	require.NoError(t, err)

	for _, target := range []string{"mpg", "hp", "wt"} {
		one, err := corr.TargetSequential(ds, target, five, corr.WithSelf(corr.SelfYes))
		require.NoError(t, err)
		require.Equal(t, 5, one.Len())
		for _, p := range one.Pairs {
			a, b := p.Target, p.Correlation
			if b < a {
				a, b = b, a
			}
			mp, ok := m.Lookup(a, b)
			require.True(t, ok, "%s~%s", a, b)
			require.Equal(t, mp.N, p.N, "%s~%s", a, b)
			requireSameFloat(t, mp.R, p.R, "r %s~%s", a, b)
			requireSameFloat(t, mp.P, p.P, "p %s~%s", a, b)
		}
	}
}

func TestSelfCorrelation(t *testing.T) {
	t.Parallel()

	ds := mtcars(t)

	yes, err := corr.Matrix(ds, five, corr.WithSelf(corr.SelfYes))
	require.NoError(t, err)
	require.Equal(t, 15, yes.Len())
	selfRows := 0
	for _, p := range yes.Pairs {
		if !p.IsSelf() {
			continue
		}
		selfRows++
		require.InDelta(t, 1.0, p.R, tol)
		require.Equal(t, 0.0, p.P)
		require.Equal(t, 0.0, p.Q)
		require.Equal(t, 32, p.N)
	}
	require.Equal(t, 5, selfRows)

	no, err := corr.TargetSequential(ds, "mpg", five)
	require.NoError(t, err)
	require.Equal(t, 4, no.Len())
	for _, p := range no.Pairs {
		require.False(t, p.IsSelf())
	}

	// A target outside the selection joins the projection but gets no self row.
	out, err := corr.TargetSequential(ds, "qsec", five, corr.WithSelf(corr.SelfYes))
	require.NoError(t, err)
	require.Equal(t, 5, out.Len())
	_, ok := out.Lookup("qsec", "qsec")
	require.False(t, ok)
}

func TestFilterRoundTrip(t *testing.T) {
	t.Parallel()

	f := subset.Filter{"cyl": {"6", "8"}, "am": {"0"}}
	out, err := corr.Matrix(mtcars(t), subset.Columns("mpg", "wt", "hp"), corr.WithFilter(f))
	require.NoError(t, err)

	require.Equal(t, []string{"am", "cyl"}, out.FilterKeys)
	require.Equal(t, []string{"Target", "Correlation", "n", "r", "p", "q", "am", "cyl"}, out.Header())
	require.Equal(t, 3, out.Len())
	for _, p := range out.Pairs {
		require.Equal(t, []string{"0", "6,8"}, p.Filters)
		require.Equal(t, 16, p.N, "manual transmission and four cylinders excluded")
	}
}

func TestBHMonotone(t *testing.T) {
	t.Parallel()

	out, err := corr.Matrix(mtcars(t), subset.Selection{})
	require.NoError(t, err)
	require.Equal(t, 55, out.Len())

	pairs := append([]corr.Pair(nil), out.Pairs...)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].P < pairs[j].P })
	for i := 1; i < len(pairs); i++ {
		require.LessOrEqual(t, pairs[i-1].Q, pairs[i].Q+1e-15)
		require.GreaterOrEqual(t, pairs[i].Q, pairs[i].P)
	}
}

func TestDispatcherCompleteness(t *testing.T) {
	t.Parallel()

	ds := mtcars(t)
	pool := workers.New(3)
	defer pool.Close()
	targets := []string{"mpg", "cyl", "disp"}

	res, err := corr.TargetMap(context.Background(), ds, targets, five,
		corr.WithPool(pool), corr.WithSelf(corr.SelfYes), corr.WithAdjustScope(corr.AdjustPerTarget))
	require.NoError(t, err)
	require.NoError(t, res.Err())
	require.Equal(t, 15, res.Table.Len())
	require.Len(t, res.Outcomes, 3)
	for i, o := range res.Outcomes {
		require.Equal(t, targets[i], o.Target)
		require.Equal(t, 5, o.Rows)
	}

	for _, target := range targets {
		one, err := corr.Target(context.Background(), ds, target, five, corr.WithPool(pool), corr.WithSelf(corr.SelfYes))
		require.NoError(t, err)
		for _, p := range one.Pairs {
			got, ok := res.Table.Lookup(p.Target, p.Correlation)
			require.True(t, ok)
			require.Equal(t, p.N, got.N)
			requireSameFloat(t, p.R, got.R)
			requireSameFloat(t, p.P, got.P)
			requireSameFloat(t, p.Q, got.Q)
		}
	}

	no, err := corr.TargetMap(context.Background(), ds, targets, five, corr.WithPool(pool))
	require.NoError(t, err)
	require.Equal(t, 12, no.Table.Len())
}

func TestMetadataIndirection(t *testing.T) {
	t.Parallel()

	ds := mtcars(t)
	sel := subset.Columns("mpg", "wt", "hp")

	viaMeta, err := corr.Matrix(ds, sel,
		corr.WithFilter(subset.Filter{"lineage": {"B"}}), corr.WithMetadata(lineage(t)))
	require.NoError(t, err)

	merc := subset.Filter{"model": {
		"Merc 240D", "Merc 230", "Merc 280", "Merc 280C", "Merc 450SE", "Merc 450SL", "Merc 450SLC",
	}}
	direct, err := corr.Matrix(ds, sel, corr.WithFilter(merc))
	require.NoError(t, err)

	require.Equal(t, direct.Len(), viaMeta.Len())
	for _, p := range viaMeta.Pairs {
		require.Equal(t, 7, p.N)
		d, ok := direct.Lookup(p.Target, p.Correlation)
		require.True(t, ok)
		requireSameFloat(t, d.R, p.R)
		requireSameFloat(t, d.Q, p.Q)
	}
	require.Equal(t, []string{"lineage"}, viaMeta.FilterKeys)
}

func TestPairwiseCompleteMissing(t *testing.T) {
	t.Parallel()

	ds := mtcars(t, "0:mpg", "1:wt", "2:mpg", "2:wt")
	out, err := corr.Matrix(ds, subset.Columns("mpg", "wt", "cyl"))
	require.NoError(t, err)

	nOf := func(a, b string) int {
		p, ok := out.Lookup(a, b)
		require.True(t, ok)
		return p.N
	}
	require.Equal(t, 29, nOf("mpg", "wt"))
	require.Equal(t, 30, nOf("cyl", "mpg"))
	require.Equal(t, 30, nOf("cyl", "wt"))

	mpgCol, err := ds.Column("mpg")
	require.NoError(t, err)
	wtCol, err := ds.Column("wt")
	require.NoError(t, err)
	x, _ := mpgCol.Values()
	y, _ := wtCol.Values()
	ref, err := stats.PearsonTest(x, y)
	require.NoError(t, err)
	p, _ := out.Lookup("mpg", "wt")
	require.InDelta(t, ref.R, p.R, tol)
	require.InDelta(t, ref.P, p.P, tol)
}

func TestSortOrder(t *testing.T) {
	t.Parallel()

	ds := mtcars(t, "0:qsec", "1:qsec", "2:qsec", "3:qsec", "4:qsec", "5:qsec", "6:qsec",
		"7:qsec", "8:qsec", "9:qsec", "10:qsec", "11:qsec", "12:qsec", "13:qsec", "14:qsec",
		"15:qsec", "16:qsec", "17:qsec", "18:qsec", "19:qsec", "20:qsec", "21:qsec", "22:qsec",
		"23:qsec", "24:qsec", "25:qsec", "26:qsec", "27:qsec", "28:qsec", "29:qsec")
	out, err := corr.Matrix(ds, subset.Columns("mpg", "qsec", "wt", "hp"))
	require.NoError(t, err)

	for i := 1; i < out.Len(); i++ {
		a, b := out.Pairs[i-1], out.Pairs[i]
		require.LessOrEqual(t, a.Target, b.Target)
		if a.Target != b.Target {
			continue
		}
		if math.IsNaN(a.Q) {
			require.True(t, math.IsNaN(b.Q), "NaN q sorts last")
			continue
		}
		if !math.IsNaN(b.Q) {
			require.LessOrEqual(t, a.Q, b.Q)
		}
	}

	// qsec has two observations left: r is defined, p is not.
	p, ok := out.Lookup("mpg", "qsec")
	require.True(t, ok)
	require.Equal(t, 2, p.N)
	require.True(t, math.IsNaN(p.P))
	require.True(t, math.IsNaN(p.Q))
}
