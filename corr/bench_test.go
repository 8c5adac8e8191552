// SPDX-License-Identifier: MIT

package corr_test

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/katalvlaran/lvcorr/corr"
	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
	"github.com/katalvlaran/lvcorr/workers"
)

func benchTable(rows, cols int) *table.Table {
	rng := rand.New(rand.NewSource(1))
	cs := make([]*table.Column, cols)
	for j := range cs {
		v := make([]float64, rows)
		for i := range v {
			v[i] = rng.NormFloat64()
		}
		cs[j] = table.NewNumeric("c"+strconv.Itoa(j), v)
	}
	return table.MustNew("", cs...)
}

func BenchmarkMatrix_500x40(b *testing.B) {
	ds := benchTable(500, 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := corr.Matrix(ds, subset.Selection{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTargetMap_500x40x8(b *testing.B) {
	ds := benchTable(500, 40)
	pool := workers.New(4)
	defer pool.Close()
	targets := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := corr.TargetMap(context.Background(), ds, targets, subset.Selection{}, corr.WithPool(pool)); err != nil {
			b.Fatal(err)
		}
	}
}
